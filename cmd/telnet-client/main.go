package main

import (
	"fmt"
	"os"
	"time"

	telnetclient "github.com/paulo-hortelan/telnet-client"
	"github.com/paulo-hortelan/telnet-client/schema"
	"github.com/paulo-hortelan/telnet-client/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type deviceConfig struct {
	ID       string `mapstructure:"id"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Type     string `mapstructure:"type"`
	Method   string `mapstructure:"method"`
}

type runConfig struct {
	Devices  []deviceConfig `mapstructure:"devices"`
	Commands []string       `mapstructure:"commands"`
	Profiles string         `mapstructure:"profiles"`
	Timeout  time.Duration  `mapstructure:"timeout"`
}

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "telnet-client",
		Short: "Run commands on remote terminal devices over telnet or SSH",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default telnet-client.yaml)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Connect to each configured device and run the command batch",
		RunE:  runBatch,
	}
	run.Flags().Duration("timeout", 0, "override the per-command timeout")
	_ = viper.BindPFlag("timeout", run.Flags().Lookup("timeout"))

	root.AddCommand(run)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*runConfig, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("telnet-client")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/telnet-client")
	}
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	cfg := &runConfig{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}
	return cfg, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := telnetclient.New()
	defer m.Shutdown()

	if cfg.Profiles != "" {
		if err := m.Profiles().LoadFile(cfg.Profiles); err != nil {
			return err
		}
	}

	for _, dev := range cfg.Devices {
		method := transport.Telnet
		if dev.Method == "ssh" {
			method = transport.SSH
		}
		s, err := m.Connect(dev.ID, schema.ConnectOptions{
			Host:       dev.Host,
			Port:       dev.Port,
			Username:   dev.Username,
			Password:   dev.Password,
			DeviceType: schema.DeviceType(dev.Type),
			Method:     method,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot connect: %v\n", dev.ID, err)
			continue
		}
		if cfg.Timeout > 0 {
			s.SetTimeout(cfg.Timeout)
		}

		for _, command := range cfg.Commands {
			out, err := s.Exec(command)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %q failed: %v\n", dev.ID, command, err)
				break
			}
			fmt.Printf("=== %s: %s ===\n%s\n", dev.ID, command, out)
		}
	}
	return nil
}
