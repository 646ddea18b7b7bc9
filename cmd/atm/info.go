package main

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.info()
		},
	}
}

func (a *app) info() error {
	configPath := a.cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dirStatus := pterm.Green("Found")
	if _, err := os.Stat(a.cfg.Ledger.Dir); err != nil {
		dirStatus = pterm.Red("Not Found (created by serve)")
	}

	kafkaBrokers := "(disabled)"
	if len(a.cfg.Kafka.Brokers) > 0 {
		kafkaBrokers = strings.Join(a.cfg.Kafka.Brokers, ", ")
	}

	tableData := pterm.TableData{
		{"Configuration File", configPath},
		{"Server Address", a.cfg.Server.Addr},
		{"Ledger Directory", a.cfg.Ledger.Dir},
		{"Ledger Directory Status", dirStatus},
		{"Kafka Brokers", kafkaBrokers},
		{"Kafka Topic", a.cfg.Kafka.Topic},
	}
	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	raw, err := a.cfg.YAML()
	if err != nil {
		return err
	}
	pterm.DefaultSection.Println("Effective configuration")
	pterm.Println(string(raw))
	return nil
}
