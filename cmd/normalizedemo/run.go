package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/arborist-dev/normalize"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [fixture.json]",
		Short: "Normalize a JSON fixture and print the resulting tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogging(cmd); err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("run: reading fixture: %w", err)
			}
			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				return fmt.Errorf("run: decoding fixture: %w", err)
			}

			n := normalize.New()
			if err := n.RegisterTransformer(func(v string, next func() (any, error)) (any, error) {
				return next()
			}); err != nil {
				return fmt.Errorf("run: registering transformer: %w", err)
			}

			tree, err := n.Normalize(context.Background(), value)
			if err != nil {
				return fmt.Errorf("run: normalizing: %w", err)
			}

			out, err := json.MarshalIndent(plainToJSONSafe(tree.ToPlain()), "", "  ")
			if err != nil {
				return fmt.Errorf("run: encoding result: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}

// plainToJSONSafe converts the *orderedmap.OrderedMap[any, any] nodes
// output.Tree.ToPlain produces into map[string]any so encoding/json can
// marshal them; order is lost here deliberately, since JSON objects have
// no defined key order anyway.
func plainToJSONSafe(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainToJSONSafe(e)
		}
		return out
	case *orderedmap.OrderedMap[any, any]:
		out := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out[fmt.Sprint(pair.Key)] = plainToJSONSafe(pair.Value)
		}
		return out
	default:
		return t
	}
}
