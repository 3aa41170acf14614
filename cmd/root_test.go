package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pizza-watch/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"watch", "outlets", "distance", "history"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "pizzawatch", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestWatchCommand_Flags(t *testing.T) {
	flag := watchCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "watch command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)

	flag = watchCmd.Flags().Lookup("no-keys")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestApplyPortFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unset keeps config", nil, 8080},
		{"explicit port", []string{"--port", "9090"}, 9090},
		{"zero disables", []string{"--port", "0"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "watch"}
			cmd.Flags().Int("port", 0, "")
			require.NoError(t, cmd.ParseFlags(tt.args))

			c := &config.Config{Server: config.ServerConfig{Port: 8080}}
			require.NoError(t, applyPortFlag(cmd, c))
			assert.Equal(t, tt.want, c.Server.Port)
		})
	}
}

func TestOutletsCommand_Flags(t *testing.T) {
	require.NotNil(t, outletsCmd.Flags().Lookup("fallback"))
	require.NotNil(t, outletsCmd.Flags().Lookup("geojson"))
}

func TestHistoryCommand_Flags(t *testing.T) {
	flag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
	require.NotNil(t, historyCmd.Flags().Lookup("outlet"))
}

func TestDistanceCommand_Args(t *testing.T) {
	assert.Error(t, distanceCmd.Args(distanceCmd, []string{"1"}))
	assert.NoError(t, distanceCmd.Args(distanceCmd, []string{"1", "2"}))
	assert.NoError(t, distanceCmd.Args(distanceCmd, []string{"1", "2", "3", "4"}))
	assert.Error(t, distanceCmd.Args(distanceCmd, []string{"1", "2", "3", "4", "5"}))
}

func TestNewClient_UsesSourceConfig(t *testing.T) {
	c := &config.Config{Source: config.SourceConfig{
		BaseURL: "http://localhost:5000", TimeoutSecs: 5, RatePerSec: 1, Burst: 1,
	}}
	client, err := newClient(c)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", client.BaseURL())

	c.Source.BaseURL = "ftp://nope"
	_, err = newClient(c)
	assert.Error(t, err)
}
