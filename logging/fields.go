package logging

import (
	"math/big"
	"time"

	"go.uber.org/zap"
)

// Field helpers for the keys that recur across generation logs.

func RunID(id string) zap.Field { return zap.String("run_id", id) }

func Seed(seed int64) zap.Field { return zap.Int64("seed", seed) }

func TokenID(id int) zap.Field { return zap.Int("token_id", id) }

func Amount(n int) zap.Field { return zap.Int("amount", n) }

func Phase(name string) zap.Field { return zap.String("phase", name) }

func Path(p string) zap.Field { return zap.String("path", p) }

func DrawIndex(i uint64) zap.Field { return zap.Uint64("draw_index", i) }

func Attempts(n int) zap.Field { return zap.Int("attempts", n) }

func Workers(n int) zap.Field { return zap.Int("workers", n) }

func Duration(d time.Duration) zap.Field { return zap.Duration("duration", d) }

// Combinations logs an arbitrary precision count as its decimal string.
func Combinations(n *big.Int) zap.Field { return zap.String("max_combinations", n.String()) }

// Traits logs a genome's ordered layer values as an array of "layer=value".
func Traits(pairs []string) zap.Field { return zap.Strings("traits", pairs) }
