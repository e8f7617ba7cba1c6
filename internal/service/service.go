// Package service translates HTTP requests into use-case calls.
package service

import "github.com/google/wire"

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewAuthService,
	NewGenerationService,
	NewAccountService,
	NewBillingService,
	NewCronService,
)
