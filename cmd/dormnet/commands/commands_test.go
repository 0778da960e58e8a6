// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dormnet/dormnet/cmd/dormnet/cli"
	"github.com/dormnet/dormnet/lib/config"
	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/process/processtest"
	"github.com/dormnet/dormnet/lib/receipt"
	"github.com/dormnet/dormnet/lib/testutil"
)

type testRun struct {
	layout testutil.Layout
	config string
	runner *processtest.Runner
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// buildTool is the configured package manager. Its commands go to the
// recording runner, never to a real process.
const buildTool = "dormnet-test-build-tool"

// newTestRun writes a configuration that keeps every path inside a
// temporary layout. External tools go to a recording runner.
func newTestRun(t *testing.T) *testRun {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	t.Setenv(MongoURIEnvVar, "")

	layout := testutil.NewLayout(t)
	configPath := filepath.Join(layout.Root, "dormnet.yaml")
	testutil.WriteFile(t, configPath, fmt.Sprintf(`platform: linux
app:
  dir: %s
service:
  command: /opt/node/bin/npm
build:
  tool: %s
systemd:
  unit_dir: %s
  user: alice
nssm:
  script_dir: %s
launchd:
  agents_dir: %s
`, layout.AppDir, buildTool, layout.UnitDir, layout.ScriptDir, layout.AgentsDir), 0o644)

	return &testRun{
		layout: layout,
		config: configPath,
		runner: processtest.New(),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
}

func (r *testRun) execute(t *testing.T, stdin string, args ...string) error {
	t.Helper()
	root := newRoot(host{in: strings.NewReader(stdin), out: r.out, errOut: r.errOut, runner: r.runner})
	return root.Execute(context.Background(), args)
}

func (r *testRun) envFile() string { return filepath.Join(r.layout.AppDir, ".env") }

func (r *testRun) unitFile() string { return filepath.Join(r.layout.UnitDir, "dormnet.service") }

func (r *testRun) receiptFile() string { return filepath.Join(r.layout.AppDir, receipt.FileName) }

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitError.Code != want {
		t.Fatalf("exit code = %d, want %d", exitError.Code, want)
	}
}

func requireValidation(t *testing.T, err error, fragment string) {
	t.Helper()
	var toolError *cli.ToolError
	if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
		t.Fatalf("error = %v, want validation ToolError", err)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("error = %q, want it to contain %q", err.Error(), fragment)
	}
}

func TestVersion(t *testing.T) {
	run := newTestRun(t)
	if err := run.execute(t, "", "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(run.out.String(), "dormnet 0.1.0-dev") {
		t.Errorf("output = %q", run.out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	run := newTestRun(t)
	err := run.execute(t, "", "unistall")
	requireValidation(t, err, `did you mean "uninstall"`)
}

func TestInvalidPlatformOverride(t *testing.T) {
	run := newTestRun(t)
	err := run.execute(t, "", "status", "--config", run.config, "--platform", "plan9")
	requireValidation(t, err, "platform")
}

func TestMissingAppDir(t *testing.T) {
	run := newTestRun(t)
	missing := filepath.Join(run.layout.Root, "nowhere")
	err := run.execute(t, "", "install", "--config", run.config, "--app-dir", missing, "--mongo-uri", "mongodb://db")
	requireValidation(t, err, "app.dir")
}

func TestInstall_BuildToolMissingRollsBack(t *testing.T) {
	run := newTestRun(t)
	run.runner.FailLaunch(buildTool + " install")

	err := run.execute(t, "", "install", "--config", run.config, "--mongo-uri", "mongodb://db.example:27017/dormnet")
	requireExitCode(t, err, 1)

	testutil.RequireAbsent(t, run.envFile())
	testutil.RequireAbsent(t, run.unitFile())
	testutil.RequireAbsent(t, run.receiptFile())

	output := run.out.String()
	for _, want := range []string{"Build failed", "Install failed; no changes remain."} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestInstallThenUninstall(t *testing.T) {
	run := newTestRun(t)

	err := run.execute(t, "", "install", "--config", run.config, "--mongo-uri", "mongodb://db.example:27017/dormnet")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, run.out.String())
	}
	testutil.RequireExists(t, run.envFile())
	testutil.RequireExists(t, run.receiptFile())
	unit := testutil.ReadFile(t, run.unitFile())
	if !strings.Contains(unit, "EnvironmentFile="+run.envFile()) || !strings.Contains(unit, "User=alice") {
		t.Errorf("unit file:\n%s", unit)
	}
	wantInstall := []string{
		buildTool + " install",
		buildTool + " run build",
		"systemctl daemon-reload",
		"systemctl enable dormnet.service",
		"systemctl start dormnet.service",
	}
	if got := run.runner.CommandLines(); !slices.Equal(got, wantInstall) {
		t.Errorf("install commands = %q, want %q", got, wantInstall)
	}
	if !strings.Contains(run.out.String(), "DormNet is installed as a Linux service") {
		t.Errorf("output:\n%s", run.out.String())
	}

	run.out.Reset()
	if err := run.execute(t, "", "status", "--config", run.config); err != nil {
		t.Fatalf("status after install: %v\n%s", err, run.out.String())
	}

	if err := run.execute(t, "", "uninstall", "--config", run.config, "--yes"); err != nil {
		t.Fatalf("uninstall: %v\n%s", err, run.out.String())
	}
	testutil.RequireAbsent(t, run.envFile())
	testutil.RequireAbsent(t, run.unitFile())
	testutil.RequireAbsent(t, run.receiptFile())
	wantUninstall := []string{
		"systemctl stop dormnet.service",
		"systemctl disable dormnet.service",
		"systemctl daemon-reload",
	}
	if got := run.runner.CommandLines()[len(wantInstall):]; !slices.Equal(got, wantUninstall) {
		t.Errorf("uninstall commands = %q, want %q", got, wantUninstall)
	}
}

func TestUninstall_AfterAppDirDeleted(t *testing.T) {
	run := newTestRun(t)
	testutil.WriteFile(t, run.unitFile(), "[Unit]\nDescription=DormNet\n", 0o644)
	if err := os.RemoveAll(run.layout.AppDir); err != nil {
		t.Fatalf("removing app dir: %v", err)
	}

	if err := run.execute(t, "", "uninstall", "--config", run.config, "--yes"); err != nil {
		t.Fatalf("uninstall: %v\n%s", err, run.out.String())
	}
	testutil.RequireAbsent(t, run.unitFile())
	if !slices.Contains(run.runner.CommandLines(), "systemctl disable dormnet.service") {
		t.Errorf("service not disabled, commands = %q", run.runner.CommandLines())
	}
	if !strings.Contains(run.out.String(), "DormNet has been uninstalled") {
		t.Errorf("output:\n%s", run.out.String())
	}
}

func TestStatus_AfterAppDirDeleted(t *testing.T) {
	run := newTestRun(t)
	if err := os.RemoveAll(run.layout.AppDir); err != nil {
		t.Fatalf("removing app dir: %v", err)
	}

	err := run.execute(t, "", "status", "--config", run.config)
	requireExitCode(t, err, 1)
	if !strings.Contains(run.out.String(), "not found at "+run.envFile()) {
		t.Errorf("output:\n%s", run.out.String())
	}
}

func TestInstall_NoMongoURI(t *testing.T) {
	run := newTestRun(t)

	err := run.execute(t, "", "install", "--config", run.config)
	requireValidation(t, err, "MongoDB URI is required")
	if !strings.Contains(run.errOut.String(), "Enter your MongoDB URI") {
		t.Errorf("prompt not shown on stderr: %q", run.errOut.String())
	}
	testutil.RequireAbsent(t, run.envFile())
}

func TestReadMongoURI(t *testing.T) {
	directory := t.TempDir()
	uriFile := filepath.Join(directory, "uri")
	testutil.WriteFile(t, uriFile, "  mongodb://file.example/dormnet\n", 0o600)

	tests := []struct {
		name    string
		params  installParams
		env     string
		stdin   string
		want    string
		wantErr string
	}{
		{
			name:   "flag",
			params: installParams{MongoURI: "mongodb://flag.example/dormnet"},
			env:    "mongodb://env.example/dormnet",
			want:   "mongodb://flag.example/dormnet",
		},
		{
			name:   "file",
			params: installParams{MongoURIFile: uriFile},
			want:   "mongodb://file.example/dormnet",
		},
		{
			name:   "file from stdin",
			params: installParams{MongoURIFile: "-"},
			stdin:  "mongodb://stdin.example/dormnet\n",
			want:   "mongodb://stdin.example/dormnet",
		},
		{
			name: "environment",
			env:  "mongodb://env.example/dormnet",
			want: "mongodb://env.example/dormnet",
		},
		{
			name:  "prompt",
			stdin: "mongodb://prompt.example/dormnet\n",
			want:  "mongodb://prompt.example/dormnet",
		},
		{
			name:    "both flags",
			params:  installParams{MongoURI: "a", MongoURIFile: uriFile},
			wantErr: "mutually exclusive",
		},
		{
			name:    "blank flag value",
			params:  installParams{MongoURI: "   "},
			wantErr: "secret is empty",
		},
		{
			name:    "missing file",
			params:  installParams{MongoURIFile: filepath.Join(directory, "absent")},
			wantErr: "no such file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(MongoURIEnvVar, test.env)
			s := host{in: strings.NewReader(test.stdin), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}

			buffer, err := readMongoURI(test.params, s)
			if test.wantErr != "" {
				if err == nil {
					buffer.Close()
					t.Fatalf("expected error containing %q", test.wantErr)
				}
				requireValidation(t, err, test.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("readMongoURI: %v", err)
			}
			defer buffer.Close()
			if got := buffer.String(); got != test.want {
				t.Errorf("URI = %q, want %q", got, test.want)
			}
		})
	}
}

func TestUninstall_NothingInstalled(t *testing.T) {
	run := newTestRun(t)

	if err := run.execute(t, "", "uninstall", "--config", run.config, "--yes"); err != nil {
		t.Fatalf("uninstall: %v", err)
	}

	output := run.out.String()
	for _, want := range []string{
		"No credential file to remove",
		"The Linux service is not registered.",
		"DormNet has been uninstalled",
		"You can now delete the application folder " + run.layout.AppDir,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestUninstall_Declined(t *testing.T) {
	run := newTestRun(t)
	testutil.WriteFile(t, run.envFile(), "MONGO_URI=mongodb://db\nSESSION_PASSWORD=x\n", 0o600)

	err := run.execute(t, "n\n", "uninstall", "--config", run.config)
	requireExitCode(t, err, 1)
	testutil.RequireExists(t, run.envFile())
	if !strings.Contains(run.errOut.String(), "Are you sure you want to uninstall DormNet? [Y/n]") {
		t.Errorf("confirmation prompt missing from stderr:\n%s", run.errOut.String())
	}
	if strings.Contains(run.out.String(), "Are you sure") {
		t.Errorf("confirmation prompt written to stdout:\n%s", run.out.String())
	}
}

func TestStatus_NothingInstalled(t *testing.T) {
	run := newTestRun(t)

	err := run.execute(t, "", "status", "--config", run.config)
	requireExitCode(t, err, 1)

	output := run.out.String()
	for _, want := range []string{"[FAIL]", "credential file", "service descriptor", "[WARN]", "install receipt"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestStatus_Installed(t *testing.T) {
	run := newTestRun(t)

	set, err := credential.NewSet(
		credential.Entry{Key: credential.KeyMongoURI, Value: "mongodb://db.example/dormnet"},
		credential.Entry{Key: credential.KeySessionPassword, Value: "abc123"},
	)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if err := credential.Write(run.envFile(), set); err != nil {
		t.Fatalf("Write: %v", err)
	}
	testutil.WriteFile(t, run.unitFile(), "[Unit]\nDescription=DormNet\n", 0o644)

	installed := &receipt.Receipt{
		Service:     "dormnet",
		Platform:    platform.Linux,
		InstalledAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:     "test",
	}
	if err := installed.Record(run.envFile(), receipt.KindCredentials); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := installed.Record(run.unitFile(), receipt.KindDescriptor); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := receipt.Write(run.receiptFile(), installed); err != nil {
		t.Fatalf("receipt.Write: %v", err)
	}

	if err := run.execute(t, "", "status", "--config", run.config); err != nil {
		t.Fatalf("status: %v\n%s", err, run.out.String())
	}
	if strings.Contains(run.out.String(), "[FAIL]") {
		t.Errorf("unexpected failure:\n%s", run.out.String())
	}

	// Editing the unit after install is reported.
	testutil.WriteFile(t, run.unitFile(), "[Unit]\nDescription=Edited\n", 0o644)
	run.out.Reset()
	err = run.execute(t, "", "status", "--config", run.config)
	requireExitCode(t, err, 1)
	if !strings.Contains(run.out.String(), "changed since install") {
		t.Errorf("modified descriptor not reported:\n%s", run.out.String())
	}
}

func TestStatus_MissingKey(t *testing.T) {
	run := newTestRun(t)
	testutil.WriteFile(t, run.envFile(), "MONGO_URI=mongodb://db\n", 0o600)

	err := run.execute(t, "", "status", "--config", run.config)
	requireExitCode(t, err, 1)
	if !strings.Contains(run.out.String(), "missing SESSION_PASSWORD") {
		t.Errorf("missing key not reported:\n%s", run.out.String())
	}
}

// TestCommandTree walks the production tree and checks that every
// subcommand is documented and runnable.
func TestCommandTree(t *testing.T) {
	root := Root()
	if len(root.Subcommands) == 0 {
		t.Fatal("root has no subcommands")
	}
	seen := make(map[string]bool)
	for _, command := range root.Subcommands {
		if seen[command.Name] {
			t.Errorf("duplicate command %q", command.Name)
		}
		seen[command.Name] = true
		if command.Summary == "" {
			t.Errorf("%s: missing Summary", command.Name)
		}
		if command.Run == nil {
			t.Errorf("%s: missing Run", command.Name)
		}
		if command.Flags != nil {
			// FlagsFromParams panics on malformed tags.
			command.Flags()
		}
	}
}
