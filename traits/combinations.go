package traits

import "math/big"

// MaxCombinations returns the upper bound on distinct genomes the config can
// produce: the product over layers of max(len(values)-d, 1), where d is 1 when
// any value of the layer triggers a rule on that layer. A layer is discounted
// at most once however many of its values are triggers.
//
// The bound is a guard for the uniqueness loop, not an exact count of jointly
// satisfiable states.
func MaxCombinations(cfg *Config) *big.Int {
	triggers := make(map[[2]string]struct{}, len(cfg.Rules))
	for _, r := range cfg.Rules {
		triggers[[2]string{r.Layer, r.Value}] = struct{}{}
	}

	total := big.NewInt(1)
	for _, layer := range cfg.Layers {
		n := len(layer.Values)
		for _, v := range layer.Values {
			if _, ok := triggers[[2]string{layer.Name, v}]; ok {
				n--
				break
			}
		}
		total.Mul(total, big.NewInt(int64(max(n, 1))))
	}
	return total
}

// Fits reports whether amount genomes can all be distinct.
func Fits(cfg *Config, amount int) bool {
	return big.NewInt(int64(amount)).Cmp(MaxCombinations(cfg)) <= 0
}
