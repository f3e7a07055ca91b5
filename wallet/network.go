package wallet

import (
	"fmt"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

// Network names a deployment of the prize pool program.
type Network struct {
	Name string
	// Production keys are derived with mainnet BIP32 version bytes; all
	// other networks use testnet bytes so exported keys are never confused.
	Production bool
}

// Predefined networks.
var (
	MainNet  = Network{Name: "mainnet", Production: true}
	DevNet   = Network{Name: "devnet"}
	LocalNet = Network{Name: "localnet"}
)

var predefined = map[string]*Network{
	MainNet.Name:  &MainNet,
	DevNet.Name:   &DevNet,
	LocalNet.Name: &LocalNet,
}

// GetNetwork returns a predefined network by name.
func GetNetwork(name string) (*Network, error) {
	if n, ok := predefined[name]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

func (n *Network) chainParams() *chaincfg.Params {
	if n.Production {
		return &chaincfg.MainNet
	}
	return &chaincfg.TestNet
}
