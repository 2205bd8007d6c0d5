package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rtconsole/config"
)

var credentialIDs = []string{"openai", "anthropic"}

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored API keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <openai|anthropic>",
		Short: "Store an API key read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentialsSet(cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <openai|anthropic>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentialsDelete(cmd, args[0])
		},
	})
	return cmd
}

func checkCredentialID(id string) error {
	for _, known := range credentialIDs {
		if id == known {
			return nil
		}
	}
	return fmt.Errorf("unknown credential %q (expected %s)", id, strings.Join(credentialIDs, " or "))
}

func runCredentialsSet(cmd *cobra.Command, id string) error {
	if err := checkCredentialID(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s API key: ", id)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	key := strings.TrimSpace(line)
	if key == "" {
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		return fmt.Errorf("empty API key")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.CredentialStore.Set(id, key)
	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %s key (%s)\n", id, cfg.CredentialStore.Method())
	return nil
}

func runCredentialsDelete(cmd *cobra.Command, id string) error {
	if err := checkCredentialID(id); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.CredentialStore.Delete(id)
	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s key\n", id)
	return nil
}
