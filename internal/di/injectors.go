//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"calmd/internal"
	"calmd/internal/controllers"
	"calmd/internal/persistence"
	"calmd/internal/providers"
	"calmd/internal/services"
	"calmd/internal/storage"
	"calmd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewClockProvider,
		providers.NewIdentityProvider,

		providers.NewCatalogProvider,
		providers.NewPatternLibraryProvider,
		providers.NewAssessmentScorerProvider,
		providers.NewStreakTrackerProvider,

		storage.NewStore,
		persistence.NewZstdCompressor,
		persistence.NewFileManager,

		services.NewMoodService,
		services.NewSessionService,
		services.NewAssessmentService,
		persistence.NewScheduler,

		controllers.NewMoodController,
		controllers.NewPatternController,
		controllers.NewSessionController,
		controllers.NewAssessmentController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
