package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalos/website/internal/accesscache"
	"github.com/vitalos/website/internal/client"
)

const (
	apiFlag       = "api"
	stateFileFlag = "state-file"
	timeoutFlag   = "timeout"

	defaultAPI = "http://localhost:8080"
)

// AddCommands attaches every subcommand and the shared flags to root.
func AddCommands(root *cobra.Command) {
	api := os.Getenv("VITALOS_API_URL")
	if api == "" {
		api = defaultAPI
	}

	root.PersistentFlags().String(apiFlag, api, "base URL of the Vitalos API (env VITALOS_API_URL)")
	root.PersistentFlags().String(stateFileFlag, defaultStateFile(), "where the access grant is stored")
	root.PersistentFlags().Duration(timeoutFlag, 30*time.Second, "HTTP timeout")

	root.AddCommand(RequestCommand())
	root.AddCommand(VerifyCommand())
	root.AddCommand(StatusCommand())
	root.AddCommand(RevokeCommand())
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "vitalos", "investors-access.json")
}

func apiClient(cmd *cobra.Command) (*client.Client, error) {
	base, err := cmd.Flags().GetString(apiFlag)
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.Flags().GetDuration(timeoutFlag)
	if err != nil {
		return nil, err
	}
	return client.New(base, timeout), nil
}

func accessCache(cmd *cobra.Command) (*accesscache.Cache, error) {
	path, err := cmd.Flags().GetString(stateFileFlag)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New("--state-file must not be empty")
	}
	return accesscache.New(accesscache.NewFileStorage(path)), nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
