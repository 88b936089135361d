package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mertbeyaz/battleship-go/test/bdd/steps"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/matchmaking", "features/gameplay", "features/session", "features/chat"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Each area carries its own scenario context with distinct step
	// wording; registration order does not matter here.
	steps.InitializeMatchmakingScenario(sc)
	steps.InitializeGameplayScenario(sc)
	steps.InitializeResumeScenario(sc)
	steps.InitializeChatScenario(sc)
}

func TestMain(m *testing.M) {
	// Initialize shared test database for all integration tests
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}
	defer helpers.CloseSharedTestDB()

	os.Exit(m.Run())
}
