package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/watchkeep/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.SubmissionsDir, convey.ShouldEqual, "submissions")
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "data/data.json")
				convey.So(cfg.RateLimitWindowSeconds, convey.ShouldEqual, 86400)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WATCHKEEP_ADDR", ":9000")
			_ = os.Setenv("WATCHKEEP_GITHUB_TOKEN", "tok_test")
			_ = os.Setenv("WATCHKEEP_REPO_FULL_NAME", "acme/rest-survey")
			_ = os.Setenv("WATCHKEEP_RATE_LIMIT_WINDOW_SECONDS", "3600")
			_ = os.Setenv("WATCHKEEP_PUBLISH_RETRIES", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
				convey.So(cfg.GitHubToken, convey.ShouldEqual, "tok_test")
				convey.So(cfg.RepoFullName, convey.ShouldEqual, "acme/rest-survey")
				convey.So(cfg.RateLimitWindowSeconds, convey.ShouldEqual, 3600)
				convey.So(cfg.PublishRetries, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
repo_full_name: "acme/survey"
submissions_dir: "uploads"
snapshot_path: "data/summary.json"
fetch_concurrency: 8
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("WATCHKEEP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RepoFullName, convey.ShouldEqual, "acme/survey")
				convey.So(cfg.SubmissionsDir, convey.ShouldEqual, "uploads")
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "data/summary.json")
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
branch: "develop"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("WATCHKEEP_CONFIG", tmpFile)
			_ = os.Setenv("WATCHKEEP_ADDR", ":7000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.Branch, convey.ShouldEqual, "develop")
			})
		})

		convey.Convey("When the config is invalid", func() {
			_ = os.Setenv("WATCHKEEP_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file is unreadable", func() {
			_ = os.Setenv("WATCHKEEP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail as a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the rate-limit window is not positive", func() {
			_ = os.Setenv("WATCHKEEP_RATE_LIMIT_WINDOW_SECONDS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"WATCHKEEP_CONFIG",
		"WATCHKEEP_ADDR",
		"WATCHKEEP_LOG_LEVEL",
		"WATCHKEEP_GITHUB_TOKEN",
		"WATCHKEEP_REPO_FULL_NAME",
		"WATCHKEEP_BRANCH",
		"WATCHKEEP_SUBMISSIONS_DIR",
		"WATCHKEEP_SNAPSHOT_PATH",
		"WATCHKEEP_SAMPLE_FILE",
		"WATCHKEEP_RATE_LIMIT_WINDOW_SECONDS",
		"WATCHKEEP_STORE_TIMEOUT_SECONDS",
		"WATCHKEEP_PUBLISH_RETRIES",
		"WATCHKEEP_FETCH_CONCURRENCY",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
