package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flowforge/flowforge/agent"
	"github.com/flowforge/flowforge/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "implementation of underline storage")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "flowforge", "namespace used in storage")
	cmd.Flags().String("store-db", "flowforge.db", "sqlite file backing the relational store adapter")
	cmd.Flags().Int("node-timeout", 30, "per node execution deadline in seconds")
	cmd.Flags().Int("scheduler-tick", 10, "schedule trigger tick interval in seconds")
	cmd.Flags().String("payment-api-key", "", "payment processor secret key")
	cmd.Flags().String("payment-base-url", "", "payment processor base url override")
	cmd.Flags().String("email-api-key", "", "email provider api key")
	cmd.Flags().String("email-base-url", "", "email provider base url override")
	cmd.Flags().String("webhook-default-url", "", "default messaging webhook url")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return err
		}
	}

	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.StoreDBPath = viper.GetString("store-db")
	c.cfg.NodeTimeoutSeconds = viper.GetInt("node-timeout")
	c.cfg.SchedulerTickSeconds = viper.GetInt("scheduler-tick")
	c.cfg.Payment.APIKey = viper.GetString("payment-api-key")
	c.cfg.Payment.BaseURL = viper.GetString("payment-base-url")
	c.cfg.Email.APIKey = viper.GetString("email-api-key")
	c.cfg.Email.BaseURL = viper.GetString("email-base-url")
	c.cfg.Webhook.DefaultURL = viper.GetString("webhook-default-url")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	if err = agent.Start(); err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "flowforge",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
