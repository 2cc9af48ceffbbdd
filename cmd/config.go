// Package cmd implements the command-line interface for vfskit.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vfs-kit/vfskit/color"
	"github.com/vfs-kit/vfskit/config"
	"github.com/vfs-kit/vfskit/filesystem"
	"github.com/vfs-kit/vfskit/style"
	"github.com/vfs-kit/vfskit/util"
	"github.com/vfs-kit/vfskit/where"
)

func errUnknownKey(key string) error {
	closest := util.Closest(key, lo.Keys(config.Default))
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd serves as the parent command for managing application configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration settings and defaults",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Specify the configuration keys to retrieve information for")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd displays metadata and descriptions for configuration fields.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display detailed information and descriptions for specified configuration fields",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))

			for _, key := range keys {
				if _, ok := config.Default[key]; !ok {
					handleErr(errUnknownKey(key))
				}

				fields = append(fields, config.Default[key])
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(fields))
			return
		}

		for i, field := range fields {
			fmt.Print(field.Pretty())

			if i < len(fields)-1 {
				fmt.Println()
				fmt.Println()
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

// configSetCmd updates the value of a specific configuration key.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Update the value of a specified configuration key",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		name, raw := args[0], args[1]

		field, ok := config.Default[name]
		if !ok {
			handleErr(errUnknownKey(name))
		}

		var value any
		var err error
		switch field.Value.(type) {
		case bool:
			value, err = strconv.ParseBool(raw)
		case int:
			value, err = strconv.Atoi(raw)
		default:
			value = raw
		}
		handleErr(err)

		viper.Set(name, value)
		handleErr(ensureConfigWritten())

		fmt.Printf("%s set to %v\n", style.Fg(color.Purple)(name), value)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

// configGetCmd prints the effective value of a configuration key.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a specified configuration key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if _, ok := config.Default[args[0]]; !ok {
			handleErr(errUnknownKey(args[0]))
		}
		fmt.Println(viper.Get(args[0]))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
}

// configResetCmd restores a configuration key to its factory default.
var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore a configuration key to its factory default",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, ok := config.Default[args[0]]
		if !ok {
			handleErr(errUnknownKey(args[0]))
		}

		viper.Set(field.Key, field.Value)
		handleErr(ensureConfigWritten())

		fmt.Printf("%s reset to %v\n", style.Fg(color.Purple)(field.Key), field.Value)
	},
}

// ensureConfigWritten persists the current viper state to the config file,
// creating it when missing.
func ensureConfigWritten() error {
	err := viper.WriteConfig()
	if err == nil {
		return nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		dir := where.Config()
		if mkErr := filesystem.API().MkdirAll(dir, os.ModePerm); mkErr != nil {
			return mkErr
		}
		return viper.SafeWriteConfig()
	}
	return err
}
