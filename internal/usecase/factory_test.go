package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

func (h *harness) factory() *usecase.ContractServiceFactory {
	probe := new(MockProbe)
	launcher := new(MockLauncher)
	return usecase.NewContractServiceFactory(
		h.evmGenerator(nil),
		h.evmCompiler(),
		usecase.NewDeployEVM(h.cfg, probe, launcher, new(MockEVMClient), nil, nil, h.log),
		h.anchorGenerator(),
		h.anchorCompiler(),
		usecase.NewDeployAnchor(h.cfg, h.runner, h.workspaces, probe, launcher, nil, nil, h.log),
		h.radixGenerator(),
		h.radixCompiler(),
		usecase.NewDeployRadix(h.cfg, h.runner, h.workspaces, nil, nil, h.log),
	)
}

func TestContractServiceFactory(t *testing.T) {
	h := newHarness(t)
	factory := h.factory()

	t.Run("binds every chain", func(t *testing.T) {
		expected := map[domain.ChainTarget][3]any{
			domain.ChainEVM:   {&usecase.GenerateEVM{}, &usecase.CompileEVM{}, &usecase.DeployEVM{}},
			domain.ChainRust:  {&usecase.GenerateAnchor{}, &usecase.CompileAnchor{}, &usecase.DeployAnchor{}},
			domain.ChainRadix: {&usecase.GenerateRadix{}, &usecase.CompileRadix{}, &usecase.DeployRadix{}},
		}
		for chain, types := range expected {
			gen, err := factory.GetGenerator(chain)
			require.NoError(t, err)
			assert.IsType(t, types[0], gen, chain)

			comp, err := factory.GetCompiler(chain)
			require.NoError(t, err)
			assert.IsType(t, types[1], comp, chain)

			dep, err := factory.GetDeployer(chain)
			require.NoError(t, err)
			assert.IsType(t, types[2], dep, chain)
		}
		assert.Equal(t, domain.AllChains(), factory.Chains())
	})

	t.Run("rejects unknown chains", func(t *testing.T) {
		_, err := factory.GetGenerator("cardano")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedChain))

		_, err = factory.GetCompiler("")
		assert.ErrorIs(t, err, domain.ErrUnsupportedChain)

		_, err = factory.GetDeployer("tezos")
		assert.ErrorIs(t, err, domain.ErrUnsupportedChain)

		result := usecase.NotSupported[*domain.DeploymentResult](err)
		assert.Equal(t, domain.KindNotSupported, result.Kind())
		assert.Equal(t, `chain "tezos" not supported`, result.Failure().Message)
	})

	t.Run("partial tables only list bound chains", func(t *testing.T) {
		partial := usecase.NewContractServiceFactoryFromTable(map[domain.ChainTarget]usecase.ChainServices{
			domain.ChainRadix: {Generator: h.radixGenerator()},
		})
		assert.Equal(t, []domain.ChainTarget{domain.ChainRadix}, partial.Chains())

		_, err := partial.GetGenerator(domain.ChainEVM)
		assert.ErrorIs(t, err, domain.ErrUnsupportedChain)
	})
}

// Every chain rejects bad uploads the same way, before any tool runs.
func TestPipelineValidationIsUniform(t *testing.T) {
	h := newHarness(t)
	factory := h.factory()
	ctx := context.Background()

	for _, chain := range factory.Chains() {
		t.Run(chain.String(), func(t *testing.T) {
			gen, err := factory.GetGenerator(chain)
			require.NoError(t, err)
			assert.Equal(t, domain.KindValidation, gen.Generate(ctx, domain.NewFileFromBytes("spec.yaml", []byte("name: x"))).Kind())

			comp, err := factory.GetCompiler(chain)
			require.NoError(t, err)
			assert.Equal(t, domain.KindValidation, comp.Compile(ctx, domain.NewFileFromBytes("empty.zip", nil)).Kind())
			assert.Equal(t, domain.KindValidation, comp.Compile(ctx, nil).Kind())

			dep, err := factory.GetDeployer(chain)
			require.NoError(t, err)
			assert.Equal(t, domain.KindValidation, dep.Deploy(ctx, domain.NewFileFromBytes("contract.txt", []byte("x")), nil).Kind())
		})
	}
	h.requireNoWorkspaces(t)
}
