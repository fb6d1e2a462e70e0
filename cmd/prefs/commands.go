package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	cmdUtil "github.com/ValentinKolb/kvprefs/cmd/util"
	"github.com/ValentinKolb/kvprefs/lib/prefs"
	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/lib/util"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			key := args[0]
			value, found := p.Get(key)
			if !found {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			fmt.Printf("key=%s, found=true, %s\n", key, formatValue(value))
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Long:  "Sets the value for a key. String lists are given as JSON array or as comma-separated list.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, _ := cmd.Flags().GetString("type")
			valueType, err := store.ParseValueType(typeName)
			if err != nil {
				return err
			}
			value, err := parseValue(valueType, args[1])
			if err != nil {
				return err
			}

			p, ctx, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ok, err := setValue(ctx, p, args[0], value).Wait(ctx)
			return report("set", ok, err)
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [key]",
		Short: "Removes a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ok, err := p.Remove(ctx, args[0]).Wait(ctx)
			return report("remove", ok, err)
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all keys of the storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ok, err := p.Clear(ctx).Wait(ctx)
			return report("clear", ok, err)
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all keys of the storage with their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			for _, key := range p.GetKeys() {
				value, _ := p.Get(key)
				fmt.Printf("%s: %s\n", key, formatValue(value))
			}
			return nil
		},
	}
	reloadCmd = &cobra.Command{
		Use:   "reload",
		Short: "Reloads the storage from the host and prints the number of keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if err := p.Reload(ctx); err != nil {
				return err
			}
			fmt.Printf("reloaded %d keys\n", len(p.GetKeys()))
			return nil
		},
	}
	importCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Sets all keys of a JSON file",
		Long:  `Sets all keys of a JSON file of the form {"key": {"type": "int", "value": 3}, ...}. All writes are issued at once and awaited concurrently.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			values, err := parseImport(data)
			if err != nil {
				return err
			}

			p, ctx, cancel, err := instance(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			// the cache takes the writes in order, the host may apply them in any order
			futures := make(map[string]*util.Future[bool], len(values))
			for key, value := range values {
				futures[key] = setValue(ctx, p, key, value)
			}

			wp := pool.New().WithErrors()
			for key, f := range futures {
				wp.Go(func() error {
					ok, err := f.Wait(ctx)
					if err != nil {
						return fmt.Errorf("%s: %w", key, err)
					}
					if !ok {
						return fmt.Errorf("%s: not applied", key)
					}
					return nil
				})
			}
			if err := wp.Wait(); err != nil {
				return err
			}

			fmt.Printf("imported %d keys\n", len(values))
			return nil
		},
	}
)

func init() {
	setCmd.Flags().String("type", "string", cmdUtil.WrapString("The type of the value (bool, int, double, string, string-list)"))
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// parseValue converts a command line argument to a value of the given type
func parseValue(valueType store.ValueType, raw string) (store.Value, error) {
	var v any
	var err error
	switch valueType {
	case store.TypeBool:
		v, err = strconv.ParseBool(raw)
	case store.TypeInt:
		v, err = strconv.ParseInt(raw, 10, 64)
	case store.TypeDouble:
		v, err = strconv.ParseFloat(raw, 64)
	case store.TypeString:
		v = raw
	case store.TypeStringList:
		list := []string{}
		if strings.HasPrefix(strings.TrimSpace(raw), "[") {
			err = json.Unmarshal([]byte(raw), &list)
		} else if raw != "" {
			list = strings.Split(raw, ",")
		}
		v = list
	default:
		return store.Value{}, fmt.Errorf("unsupported value type %s", valueType)
	}
	if err != nil {
		return store.Value{}, fmt.Errorf("invalid %s value %q: %w", valueType, raw, err)
	}
	return store.NewValue(valueType, v)
}

// parseImport decodes a JSON object of tagged values
func parseImport(data []byte) (map[string]store.Value, error) {
	values := map[string]store.Value{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("invalid import file: %w", err)
	}
	return values, nil
}

// setValue calls the setter matching the value's type
func setValue(ctx context.Context, p *prefs.Preferences, key string, value store.Value) *util.Future[bool] {
	switch value.Type {
	case store.TypeBool:
		return p.SetBool(ctx, key, value.Bool)
	case store.TypeInt:
		return p.SetInt(ctx, key, value.Int)
	case store.TypeDouble:
		return p.SetDouble(ctx, key, value.Double)
	case store.TypeString:
		return p.SetString(ctx, key, value.String)
	case store.TypeStringList:
		return p.SetStringList(ctx, key, value.List)
	default:
		return util.Resolved(false, fmt.Errorf("key %q: unsupported value type %s", key, value.Type))
	}
}

// formatValue prints a value with its type
func formatValue(v any) string {
	tagged, err := store.ValueOf(v)
	if err != nil {
		return fmt.Sprintf("value=%v", v)
	}
	raw, _ := json.Marshal(tagged.Any())
	return fmt.Sprintf("type=%s, value=%s", tagged.Type, raw)
}

func report(op string, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s was not applied by the host", op)
	}
	fmt.Printf("%s successfully\n", op)
	return nil
}
