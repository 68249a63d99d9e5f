package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{name: "no flags", args: nil, want: options{}},
		{name: "config file", args: []string{"--config", "scry.yaml"}, want: options{configFile: "scry.yaml"}},
		{name: "migrate up", args: []string{"--migrate", "up"}, want: options{migrate: "up"}},
		{name: "migrate status", args: []string{"--migrate=status"}, want: options{migrate: "status"}},
		{name: "unknown migrate command", args: []string{"--migrate", "redo"}, wantErr: true},
		{name: "unknown flag", args: []string{"--port", "80"}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseFlags(tc.args, io.Discard)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	t.Parallel()

	_, err := parseFlags([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestRun_MissingConfigFile(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), options{configFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
