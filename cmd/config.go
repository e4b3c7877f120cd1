package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/amvnote/amvnote/color"
	"github.com/amvnote/amvnote/config"
	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/style"
	"github.com/amvnote/amvnote/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Amvnote+".toml")
}

func writeConfig() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

func success(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func highlightKey(k string) string { return style.Fg(color.Purple)(k) }

func highlightValue(v any) string { return style.Fg(color.Yellow)(fmt.Sprintf("%v", v)) }

// lookupKey resolves a key, coloring the suggestion of an unknown one.
func lookupKey(k string) config.Field {
	field, err := config.Lookup(k)
	var unknown *config.UnknownKeyError
	if errors.As(err, &unknown) {
		err = fmt.Errorf("unknown key %s, did you mean %s?", style.Fg(color.Red)(unknown.Key), highlightValue(unknown.Closest))
	}
	handleErr(err)
	return field
}

// keyAndValues reads "[key] [values...]" from args, falling back to the
// --key and --value flags the command defines.
func keyAndValues(cmd *cobra.Command, args []string) (config.Field, []string) {
	k, _ := cmd.Flags().GetString("key")
	if len(args) > 0 {
		k, args = args[0], args[1:]
	}
	if k == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	values := args
	if len(values) == 0 && cmd.Flags().Lookup("value") != nil {
		values, _ = cmd.Flags().GetStringSlice("value")
	}
	return lookupKey(k), values
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func completionConfigSections(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.Sections(), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:               "info [section...]",
	Short:             "Show configuration fields grouped by section",
	Example:           "  amvnote config info probe preview\n  amvnote config info -k engine.hwdec",
	ValidArgsFunction: completionConfigSections,
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		fields, err := config.Select(args, keys)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields)))
			return
		}

		out := cmd.OutOrStdout()
		section := ""
		for i, field := range fields {
			if s := config.Section(field.Key); s != section {
				section = s
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, style.Bold(style.Fg(color.Blue)("["+section+"]")))
			}
			fmt.Fprintln(out, field.Pretty())
		}
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		problems := config.Problems()
		if len(problems) == 0 {
			success("configuration is valid")
			return
		}
		for _, problem := range problems {
			fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), problem)
		}
		handleErr(fmt.Errorf("%d invalid value(s) in %s", len(problems), configFilePath()))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Configuration key")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "New value")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Set and validate a configuration value",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, values := keyAndValues(cmd, args)
		v, err := field.Parse(values)
		handleErr(err)

		viper.Set(field.Key, v)
		writeConfig()
		success("set %s to %s", highlightKey(field.Key), highlightValue(v))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Configuration key")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print a configuration value",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, _ := keyAndValues(cmd, args)
		fmt.Println(viper.Get(field.Key))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key | section]",
	Short:             "Reset a key, a section or everything to defaults",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var fields []config.Field
		switch {
		case lo.Must(cmd.Flags().GetBool("all")):
			if !lo.Must(cmd.Flags().GetBool("yes")) {
				var confirmed bool
				handleErr(survey.AskOne(&survey.Confirm{Message: "Reset every configuration value?"}, &confirmed))
				if !confirmed {
					return
				}
			}
			fields = lo.Must(config.Select(nil, nil))
		case len(args) > 0 && lo.Contains(config.Sections(), args[0]):
			fields = lo.Must(config.Select(args, nil))
		default:
			field, _ := keyAndValues(cmd, args)
			fields = []config.Field{field}
		}

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		writeConfig()

		if len(fields) == 1 {
			success("reset %s to %s", highlightKey(fields[0].Key), highlightValue(fields[0].Value))
			return
		}
		success("reset %d values", len(fields))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()
		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		success("deleted config")
	},
}
