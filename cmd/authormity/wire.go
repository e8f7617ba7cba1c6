//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"Authormity/internal/biz"
	"Authormity/internal/conf"
	"Authormity/internal/data"
	"Authormity/internal/server"
	"Authormity/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Auth, *conf.LinkedIn, *conf.LLM, *conf.Billing, *conf.Scheduler, *conf.RateLimit, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		server.ProviderSet,
		newTokenCipher,
		newLinkedInClient,
		newOpenRouterClient,
		NewPublishCron,
		newApp,
	))
}
