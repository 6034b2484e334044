package consensus

// Gas-limit adjustment constants, spec.md §4.6.
const (
	MinGasLimit     = 125000
	GenesisGasLimit = 3141592

	gasLimitEMAFactor    = 1024
	gasLimitBlkLimNom    = 3
	gasLimitBlkLimDen    = 2
)

// CalcGasLimit derives the child block's gas limit from its parent,
// exactly as ethereum/blocks.py's calc_gaslimit.
func CalcGasLimit(parentGasLimit, parentGasUsed uint64) uint64 {
	decay := parentGasLimit / gasLimitEMAFactor
	contribution := (parentGasUsed * gasLimitBlkLimNom / gasLimitBlkLimDen) / gasLimitEMAFactor
	gl := parentGasLimit - decay + contribution
	if gl < MinGasLimit {
		gl = MinGasLimit
	}
	if gl < GenesisGasLimit {
		gl2 := parentGasLimit + decay
		if gl2 < GenesisGasLimit {
			gl = gl2
		} else {
			gl = GenesisGasLimit
		}
	}
	return gl
}

// CheckGasLimit reports whether gasLimit is a valid child of
// parentGasLimit: within ±parentGasLimit/1024 and at least MinGasLimit.
func CheckGasLimit(parentGasLimit, gasLimit uint64) bool {
	var diff uint64
	if gasLimit > parentGasLimit {
		diff = gasLimit - parentGasLimit
	} else {
		diff = parentGasLimit - gasLimit
	}
	return diff <= parentGasLimit/gasLimitEMAFactor && gasLimit >= MinGasLimit
}
