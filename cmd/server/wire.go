//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"linkbio/internal/app"
	"linkbio/internal/config"
	"linkbio/internal/enrich"
	"linkbio/internal/http"
	"linkbio/internal/http/controller"
	"linkbio/internal/http/middleware"
	"linkbio/internal/logging"
	"linkbio/internal/profile"
	"linkbio/internal/queue/rabbitmq"
	"linkbio/internal/service/notify"
	"linkbio/internal/service/visit"
	"linkbio/internal/session"
	"linkbio/internal/store"
	"linkbio/internal/telegram"
)

func InitializeApp() (*app.App, func(), error) {
	wire.Build(
		config.New,
		logging.New,
		store.ProviderSet,
		session.NewTracker,
		enrich.NewGeoClient,
		enrich.NewService,
		telegram.NewClient,
		rabbitmq.NewPublisher,
		rabbitmq.NewConsumer,
		notify.NewSender,
		notify.NewConnectivityProbe,
		notify.NewFallback,
		notify.NewService,
		visit.NewService,
		profile.Load,
		controller.NewHandler,
		middleware.NewRateLimiter,
		http.NewRouter,
		app.NewApp,
		wire.Bind(new(notify.Prober), new(*notify.ConnectivityProbe)),
		wire.Bind(new(visit.Enricher), new(*enrich.Service)),
		wire.Bind(new(visit.Notifier), new(*notify.Service)),
		wire.Bind(new(controller.Visits), new(*visit.Service)),
		wire.Bind(new(middleware.PageVisitor), new(*visit.Service)),
	)
	return &app.App{}, nil, nil
}
