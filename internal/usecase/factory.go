package usecase

import (
	"github.com/trebuchet-org/scgen/internal/domain"
)

// ChainServices is the generator, compiler and deployer of one chain
type ChainServices struct {
	Generator ContractGenerator
	Compiler  ContractCompiler
	Deployer  ContractDeployer
}

// ContractServiceFactory resolves a chain to its operations
type ContractServiceFactory struct {
	services map[domain.ChainTarget]ChainServices
}

// NewContractServiceFactory binds the nine chain operations
func NewContractServiceFactory(
	generateEVM *GenerateEVM,
	compileEVM *CompileEVM,
	deployEVM *DeployEVM,
	generateAnchor *GenerateAnchor,
	compileAnchor *CompileAnchor,
	deployAnchor *DeployAnchor,
	generateRadix *GenerateRadix,
	compileRadix *CompileRadix,
	deployRadix *DeployRadix,
) *ContractServiceFactory {
	return NewContractServiceFactoryFromTable(map[domain.ChainTarget]ChainServices{
		domain.ChainEVM:   {Generator: generateEVM, Compiler: compileEVM, Deployer: deployEVM},
		domain.ChainRust:  {Generator: generateAnchor, Compiler: compileAnchor, Deployer: deployAnchor},
		domain.ChainRadix: {Generator: generateRadix, Compiler: compileRadix, Deployer: deployRadix},
	})
}

// NewContractServiceFactoryFromTable builds a factory from an explicit table
func NewContractServiceFactoryFromTable(services map[domain.ChainTarget]ChainServices) *ContractServiceFactory {
	return &ContractServiceFactory{services: services}
}

// GetGenerator returns the generator bound to chain
func (f *ContractServiceFactory) GetGenerator(chain domain.ChainTarget) (ContractGenerator, error) {
	s, err := f.lookup(chain)
	if err != nil {
		return nil, err
	}
	return s.Generator, nil
}

// GetCompiler returns the compiler bound to chain
func (f *ContractServiceFactory) GetCompiler(chain domain.ChainTarget) (ContractCompiler, error) {
	s, err := f.lookup(chain)
	if err != nil {
		return nil, err
	}
	return s.Compiler, nil
}

// GetDeployer returns the deployer bound to chain
func (f *ContractServiceFactory) GetDeployer(chain domain.ChainTarget) (ContractDeployer, error) {
	s, err := f.lookup(chain)
	if err != nil {
		return nil, err
	}
	return s.Deployer, nil
}

// Chains lists the bound chains in display order
func (f *ContractServiceFactory) Chains() []domain.ChainTarget {
	var chains []domain.ChainTarget
	for _, chain := range domain.AllChains() {
		if _, ok := f.services[chain]; ok {
			chains = append(chains, chain)
		}
	}
	return chains
}

func (f *ContractServiceFactory) lookup(chain domain.ChainTarget) (ChainServices, error) {
	s, ok := f.services[chain]
	if !ok {
		return ChainServices{}, &domain.UnsupportedChainError{Value: string(chain)}
	}
	return s, nil
}

// NotSupported converts a resolution error into a failed result
func NotSupported[T any](err error) domain.Result[T] {
	return domain.Fail[T](domain.KindNotSupported, err.Error())
}
