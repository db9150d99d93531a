package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"linkbio/internal/config"
)

type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Icon string `yaml:"icon"`
}

// Profile is what the bio page renders.
type Profile struct {
	Nickname string `yaml:"nickname"`
	Links    []Link `yaml:"links"`
}

func Default() *Profile {
	return &Profile{
		Nickname: "linkbio",
		Links: []Link{
			{Name: "GitHub", URL: "https://github.com/", Icon: "fa-brands fa-github"},
			{Name: "Telegram", URL: "https://t.me/", Icon: "fa-brands fa-telegram"},
			{Name: "YouTube", URL: "https://www.youtube.com/", Icon: "fa-brands fa-youtube"},
		},
	}
}

// Load reads the profile file. A missing file yields Default.
func Load(cfg *config.Config, logger *zap.Logger) (*Profile, error) {
	data, err := os.ReadFile(cfg.ProfilePath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("bio profile not found, using default", zap.String("path", cfg.ProfilePath))
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bio profile: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse bio profile: %w", err)
	}
	if strings.TrimSpace(p.Nickname) == "" {
		return nil, errors.New("parse bio profile: nickname is required")
	}
	for i, l := range p.Links {
		if l.Name == "" || l.URL == "" {
			return nil, fmt.Errorf("parse bio profile: link %d needs name and url", i)
		}
		if l.Icon == "" {
			p.Links[i].Icon = "fa-solid fa-link"
		}
	}
	return &p, nil
}
