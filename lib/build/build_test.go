// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dormnet/dormnet/lib/process/processtest"
)

var npm = Tool{
	Binary:      "npm",
	InstallArgs: []string{"install"},
	BuildArgs:   []string{"run", "build"},
}

func TestInstallAndBuild_Success(t *testing.T) {
	runner := processtest.New()
	builder := &Runner{Tool: npm, Process: runner}

	if err := builder.InstallAndBuild(context.Background(), "/srv/dormnet"); err != nil {
		t.Fatalf("InstallAndBuild: %v", err)
	}

	want := []string{"npm install", "npm run build"}
	if got := runner.CommandLines(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
	for _, call := range runner.Calls() {
		if call.Dir != "/srv/dormnet" {
			t.Errorf("%s ran in %q, want /srv/dormnet", call, call.Dir)
		}
	}
}

func TestInstallAndBuild_Failures(t *testing.T) {
	tests := []struct {
		name         string
		script       func(*processtest.Runner)
		wantStage    Stage
		wantLaunch   bool
		wantExitCode int
		wantCommands []string
	}{
		{
			name:         "install exits non-zero",
			script:       func(r *processtest.Runner) { r.FailExit("npm install", 1) },
			wantStage:    StageInstall,
			wantExitCode: 1,
			wantCommands: []string{"npm install"},
		},
		{
			name:         "build exits non-zero",
			script:       func(r *processtest.Runner) { r.FailExit("npm run build", 2) },
			wantStage:    StageBuild,
			wantExitCode: 2,
			wantCommands: []string{"npm install", "npm run build"},
		},
		{
			name:         "npm missing",
			script:       func(r *processtest.Runner) { r.FailLaunch("npm install") },
			wantStage:    StageInstall,
			wantLaunch:   true,
			wantExitCode: -1,
			wantCommands: []string{"npm install"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner := processtest.New()
			test.script(runner)
			builder := &Runner{Tool: npm, Process: runner}

			err := builder.InstallAndBuild(context.Background(), "/srv/dormnet")

			var buildError *Error
			if !errors.As(err, &buildError) {
				t.Fatalf("error = %v (%T), want *build.Error", err, err)
			}
			if buildError.Stage != test.wantStage {
				t.Errorf("Stage = %s, want %s", buildError.Stage, test.wantStage)
			}
			if buildError.Launch() != test.wantLaunch {
				t.Errorf("Launch() = %v, want %v", buildError.Launch(), test.wantLaunch)
			}
			if buildError.ExitCode() != test.wantExitCode {
				t.Errorf("ExitCode() = %d, want %d", buildError.ExitCode(), test.wantExitCode)
			}
			if got := runner.CommandLines(); !reflect.DeepEqual(got, test.wantCommands) {
				t.Errorf("commands = %v, want %v", got, test.wantCommands)
			}
		})
	}
}
