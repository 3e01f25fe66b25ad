package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/pflag"
)

func cmdContext() context.Context {
	return context.Background()
}

// addLimitFlag registers the shared --limit flag on a list command.
func addLimitFlag(fs *pflag.FlagSet, limit *int64) {
	fs.Int64Var(limit, "limit", -1, "maximum number of rows (-1 for all)")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
