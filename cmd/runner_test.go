package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotdb/internal/repositories"
	"github.com/desertthunder/spotdb/internal/shared"
	tu "github.com/desertthunder/spotdb/internal/testing"
)

const (
	testPlaylist  = "37i9dQZF1DXcBWIGoYBM5M"
	otherPlaylist = "0VLaP8vVXSIi1c11Jln1AT"
)

type cliEnv struct {
	fake       *tu.FakeSpotify
	configPath string
	dbPath     string
	tokenPath  string
	output     *bytes.Buffer
	logs       *bytes.Buffer
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	fake := tu.NewFakeSpotify(t)
	env := &cliEnv{
		fake:       fake,
		configPath: filepath.Join(dir, "config.toml"),
		dbPath:     filepath.Join(dir, "data", "spotify.db"),
		tokenPath:  tu.WriteTokenFile(t, "cli-token"),
		output:     &bytes.Buffer{},
		logs:       &bytes.Buffer{},
	}

	content := fmt.Sprintf(`[credentials]
token_path = %q

[spotify]
base_url = %q
page_limit = 5
page_delay = "0s"
timeout = "5s"

[database]
path = %q
driver = "sqlite3"

[playlists]
default = [%q]

[log]
level = "info"
`, env.tokenPath, fake.URL, env.dbPath, testPlaylist)

	if err := os.WriteFile(env.configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// run executes the CLI with stdin set to input.
func (e *cliEnv) run(t *testing.T, input string, args ...string) error {
	t.Helper()
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewLogger(e.logs),
		Output: e.output,
		Input:  strings.NewReader(input),
	})
	return newApp(runner).Run(context.Background(), append([]string{"spotdb"}, args...))
}

func (e *cliEnv) counts(t *testing.T) repositories.TableCounts {
	t.Helper()
	store, err := shared.OpenStore(context.Background(), shared.DatabaseConfig{Path: e.dbPath})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	c, err := repositories.Stats(context.Background(), store)
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return *c
}

func addPlaylist(env *cliEnv, id, name string, n int) {
	tracks := make([]*tu.TrackFixture, 0, n)
	for i := range n {
		tr := tu.NewTrack(fmt.Sprintf("%s-%d", id[:4], i), fmt.Sprintf("Song %d", i), id[:4]+"-album", "Artist "+id[:4])
		tracks = append(tracks, &tr)
	}
	env.fake.AddPlaylist(id, tu.FakePlaylist{Name: name, Tracks: tracks})
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("")
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				Input:      input,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("write helpers", func(t *testing.T) {
		t.Run("writeJSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"a": 1}, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.String() != "{\"a\":1}\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]int{"a": 1}, true); err == nil {
				t.Error("expected error from failing writer")
			}
			if err := runner.writePlain("x"); err == nil {
				t.Error("expected error from failing writer")
			}
		})

		t.Run("newline failure", func(t *testing.T) {
			lw := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &lw})

			if err := runner.writeJSON("x", false); err == nil {
				t.Error("expected error when the newline cannot be written")
			}
		})
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		prompts int
	}{
		{"yes", "yes\n", true, 1},
		{"short yes", "y\n", true, 1},
		{"upper case", "YES\n", true, 1},
		{"no", "no\n", false, 1},
		{"empty answer", "\n", false, 1},
		{"end of input", "", false, 1},
		{"re-prompts on unknown answers", "maybe\nsure\nyes\n", true, 3},
		{"no after unknown answer", "later\nn\n", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Input: strings.NewReader(tt.input)})

			got, err := runner.confirm("Wipe everything?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm() = %v, want %v", got, tt.want)
			}
			if n := strings.Count(output.String(), "Wipe everything?"); n != tt.prompts {
				t.Errorf("expected %d prompts, got %d:\n%s", tt.prompts, n, output.String())
			}
		})
	}
}

func TestIngestCommand(t *testing.T) {
	t.Run("ingests playlists from arguments", func(t *testing.T) {
		env := newCLIEnv(t)
		addPlaylist(env, testPlaylist, "Mix", 7)
		addPlaylist(env, otherPlaylist, "Other", 2)

		err := env.run(t, "", "ingest", "--config", env.configPath, "spotify:playlist:"+testPlaylist, otherPlaylist)
		if err != nil {
			t.Fatalf("unexpected error: %v\nlogs:\n%s", err, env.logs.String())
		}

		got := env.counts(t)
		if got.Playlists != 2 || got.Tracks != 9 || got.PlaylistTracks != 9 {
			t.Errorf("unexpected counts %+v", got)
		}

		output := env.output.String()
		if !strings.Contains(output, "Ingested 2 playlists") || !strings.Contains(output, "Mix") {
			t.Errorf("expected summary in output, got:\n%s", output)
		}

		for _, r := range env.fake.Requests() {
			if r.Authorization != "Bearer cli-token" {
				t.Errorf("expected token from file, got %q", r.Authorization)
			}
		}
	})

	t.Run("falls back to configured playlists", func(t *testing.T) {
		env := newCLIEnv(t)
		addPlaylist(env, testPlaylist, "Default", 3)

		if err := env.run(t, "", "ingest", "--config", env.configPath, "--quiet"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := env.counts(t); got.Playlists != 1 || got.Tracks != 3 {
			t.Errorf("unexpected counts %+v", got)
		}
	})

	t.Run("page limit flag", func(t *testing.T) {
		env := newCLIEnv(t)
		addPlaylist(env, testPlaylist, "Paged", 6)

		if err := env.run(t, "", "ingest", "--config", env.configPath, "--limit", "2", "--quiet"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(env.fake.TrackRequests()); n != 3 {
			t.Errorf("expected 3 page requests, got %d", n)
		}
	})

	t.Run("json output", func(t *testing.T) {
		env := newCLIEnv(t)
		addPlaylist(env, testPlaylist, "Json", 1)

		if err := env.run(t, "", "ingest", "--config", env.configPath, "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var summary ingestSummary
		if err := json.Unmarshal(env.output.Bytes(), &summary); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, env.output.String())
		}
		if summary.RunID == "" || len(summary.Results) != 1 || summary.Totals.Tracks != 1 {
			t.Errorf("unexpected summary %+v", summary)
		}
	})

	t.Run("partial failure returns an error", func(t *testing.T) {
		env := newCLIEnv(t)
		addPlaylist(env, testPlaylist, "Good", 2)
		env.fake.FailName(otherPlaylist, http.StatusForbidden, "Forbidden playlist")

		err := env.run(t, "", "ingest", "--config", env.configPath, otherPlaylist, testPlaylist)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected joined API error, got %v", err)
		}
		if got := env.counts(t); got.Tracks != 2 {
			t.Errorf("expected the good playlist to be stored, got %+v", got)
		}
		if !strings.Contains(env.output.String(), "Forbidden playlist") {
			t.Errorf("expected failure in summary, got:\n%s", env.output.String())
		}
	})

	t.Run("missing token file", func(t *testing.T) {
		env := newCLIEnv(t)

		err := env.run(t, "", "ingest", "--config", env.configPath, "--token-file", filepath.Join(t.TempDir(), "nope.txt"))

		var credErr *shared.CredentialError
		if !errors.As(err, &credErr) || credErr.Kind != shared.CredentialNotFound {
			t.Fatalf("expected CredentialNotFound, got %v", err)
		}
		if len(env.fake.Requests()) != 0 {
			t.Error("no request should be made without a token")
		}
	})

	t.Run("invalid playlist id", func(t *testing.T) {
		env := newCLIEnv(t)

		err := env.run(t, "", "ingest", "--config", env.configPath, "not-a-playlist")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		env := newCLIEnv(t)

		err := env.run(t, "", "ingest", "--config", filepath.Join(t.TempDir(), "missing.toml"))
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestDBCommands(t *testing.T) {
	seed := func(t *testing.T) *cliEnv {
		t.Helper()
		env := newCLIEnv(t)
		addPlaylist(env, testPlaylist, "Seed", 4)
		if err := env.run(t, "", "ingest", "--config", env.configPath, "--quiet"); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		env.output.Reset()
		return env
	}

	t.Run("wipe re-prompts until yes", func(t *testing.T) {
		env := seed(t)

		if err := env.run(t, "maybe\nYES\n", "db", "wipe", "--config", env.configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := env.output.String()
		if strings.Count(output, "Type 'yes' to confirm") != 2 {
			t.Errorf("expected two prompts, got:\n%s", output)
		}
		if !strings.Contains(output, "playlist_track") {
			t.Errorf("expected table list after wipe, got:\n%s", output)
		}
		if got := env.counts(t); got != (repositories.TableCounts{}) {
			t.Errorf("expected empty tables, got %+v", got)
		}
	})

	t.Run("wipe aborted", func(t *testing.T) {
		env := seed(t)

		err := env.run(t, "no\n", "db", "wipe", "--config", env.configPath)
		if !errors.Is(err, shared.ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
		if got := env.counts(t); got.Tracks != 4 {
			t.Errorf("data should survive an aborted wipe, got %+v", got)
		}
	})

	t.Run("wipe aborted on end of input", func(t *testing.T) {
		env := seed(t)

		if err := env.run(t, "", "db", "wipe", "--config", env.configPath); !errors.Is(err, shared.ErrAborted) {
			t.Errorf("expected ErrAborted, got %v", err)
		}
	})

	t.Run("wipe --yes", func(t *testing.T) {
		env := seed(t)

		if err := env.run(t, "", "db", "wipe", "--config", env.configPath, "--yes"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(env.output.String(), "Type 'yes'") {
			t.Error("--yes should skip the prompt")
		}
		if got := env.counts(t); got.Tracks != 0 {
			t.Errorf("expected empty tables, got %+v", got)
		}
	})

	t.Run("tables", func(t *testing.T) {
		env := seed(t)

		if err := env.run(t, "", "db", "tables", "--config", env.configPath, "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var tables []shared.TableInfo
		if err := json.Unmarshal(env.output.Bytes(), &tables); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(tables) != 5 {
			t.Errorf("expected 5 tables, got %+v", tables)
		}
	})

	t.Run("stats", func(t *testing.T) {
		env := seed(t)

		if err := env.run(t, "", "db", "stats", "--config", env.configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.output.String(), "track") || !strings.Contains(env.output.String(), "4") {
			t.Errorf("unexpected stats output:\n%s", env.output.String())
		}
	})

	t.Run("sample csv", func(t *testing.T) {
		env := seed(t)

		if err := env.run(t, "", "db", "sample", "--config", env.configPath, "--limit", "2", "--format", "csv"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := env.output.String()
		for _, table := range shared.SchemaTables {
			if !strings.Contains(output, "# "+table+"\n") {
				t.Errorf("missing section for %s", table)
			}
		}
		if strings.Count(output, "spotify:track:") != 2 {
			t.Errorf("expected 2 sampled tracks, got:\n%s", output)
		}
	})

	t.Run("sample rejects bad format", func(t *testing.T) {
		env := seed(t)

		err := env.run(t, "", "db", "sample", "--config", env.configPath, "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("init", func(t *testing.T) {
		env := newCLIEnv(t)

		if err := env.run(t, "", "db", "init", "--config", env.configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, env.dbPath)
	})
}

func TestConfigCommands(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		env := newCLIEnv(t)
		path := filepath.Join(t.TempDir(), "new.toml")

		if err := env.run(t, "", "config", "init", "--output", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, path), "[spotify]") {
			t.Error("expected example config contents")
		}

		if err := env.run(t, "", "config", "init", "--output", path); err == nil {
			t.Error("expected error when the file already exists")
		}
	})

	t.Run("show", func(t *testing.T) {
		env := newCLIEnv(t)

		if err := env.run(t, "", "config", "show", "--config", env.configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.output.String(), env.fake.URL) {
			t.Errorf("expected base url in output, got:\n%s", env.output.String())
		}
	})
}

func TestExitCode(t *testing.T) {
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"aborted", fmt.Errorf("%w: wipe", shared.ErrAborted), 0},
		{"token not found", &shared.CredentialError{Kind: shared.CredentialNotFound, Path: "x"}, 2},
		{"token invalid", &shared.CredentialError{Kind: shared.CredentialInvalid, Path: "x"}, 2},
		{"config", fmt.Errorf("%w: bad", shared.ErrInvalidConfig), 2},
		{"interrupted", context.Canceled, 130},
		{"other", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(runner, tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
