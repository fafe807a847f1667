package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tasktray/tasktray/cmd/internal"
	"github.com/tasktray/tasktray/internal/bootstrap"
	"github.com/tasktray/tasktray/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Long: fmt.Sprintf(`Show or change the persisted preferences.

Keys: %s`, strings.Join(settings.Keys(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every preference as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd)
		},
	})
	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	cmd.AddCommand(newSettingsResetCmd())

	return cmd
}

func runSettingsShow(cmd *cobra.Command) error {
	return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
		data, err := yaml.Marshal(rt.App.Settings().Snapshot())
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	})
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				v, err := settingValue(rt.App.Settings().Snapshot(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Long: `Change one preference. Booleans accept true/false, on/off and yes/no.
Opacity is clamped to 0-100. Window bounds are written WIDTHxHEIGHT+X+Y.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				svc := rt.App.Settings()
				if err := svc.SetString(key, raw); err != nil {
					return err
				}
				if key == settings.KeyAlwaysOnTop {
					rt.App.Windows().Main().SetAlwaysOnTop(svc.AlwaysOnTop())
				}

				v, err := settingValue(svc.Snapshot(), key)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, v)
				return nil
			})
		},
	}
}

func newSettingsResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all tasks and restore default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := internal.Confirm(cmd.OutOrStdout(), cmd.InOrStdin(),
					"This deletes every task and resets all preferences. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				if err := rt.App.ClearAllData(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Set or toggle the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(settings.ThemeDark), string(settings.ThemeLight)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				svc := rt.App.Settings()
				if len(args) == 0 {
					if _, err := svc.ToggleTheme(); err != nil {
						return err
					}
				} else if err := svc.SetString(settings.KeyTheme, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", svc.Theme())
				return nil
			})
		},
	}
}

func newOnTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ontop [on|off]",
		Short: "Pin the widget above other windows, or toggle it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				var on bool
				if len(args) == 0 {
					on = rt.App.ToggleAlwaysOnTop()
				} else {
					svc := rt.App.Settings()
					if err := svc.SetString(settings.KeyAlwaysOnTop, args[0]); err != nil {
						return err
					}
					on = svc.AlwaysOnTop()
					rt.App.Windows().Main().SetAlwaysOnTop(on)
				}

				state := "off"
				if on {
					state = "on"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Always on top: %s\n", state)
				return nil
			})
		},
	}
}

// settingValue picks key out of a snapshot so unset keys show their
// defaults.
func settingValue(v settings.Values, key string) (any, error) {
	switch key {
	case settings.KeyWindowBounds:
		return v.WindowBounds, nil
	case settings.KeyTheme:
		return v.Theme, nil
	case settings.KeyOpacity:
		return v.Opacity, nil
	case settings.KeyAlwaysOnTop:
		return v.AlwaysOnTop, nil
	case settings.KeyStartWithSystem:
		return v.StartWithSystem, nil
	case settings.KeyMinimizeToTray:
		return v.MinimizeToTray, nil
	}
	return nil, fmt.Errorf("%w: %q", settings.ErrUnknownKey, key)
}
