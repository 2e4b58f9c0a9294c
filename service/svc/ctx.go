package svc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/questforge/cubevault/config"
	"github.com/questforge/cubevault/core"
	"github.com/questforge/cubevault/dao"
	"github.com/questforge/cubevault/pkg/xzap"
)

// ServerCtx wires the engine, its persistence and the configuration
// together for the handler and service layers.
type ServerCtx struct {
	C      *config.Config
	Dao    *dao.Dao
	Engine *core.Engine
}

func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	if err := xzap.SetUp(c.Log.Level); err != nil {
		return nil, errors.Wrap(err, "logger setup")
	}

	d, err := dao.New(&c.DB)
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(c.Domain.ContractAddress) {
		return nil, errors.Errorf("invalid domain contract address %q", c.Domain.ContractAddress)
	}
	engine := core.NewEngine(core.Config{
		DomainName:      c.Domain.Name,
		DomainVersion:   c.Domain.Version,
		ChainID:         c.Domain.ChainID,
		ContractAddress: common.HexToAddress(c.Domain.ContractAddress),
	}, core.NewMemoryRegistry())

	ctx := context.Background()
	snap, err := d.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := engine.Hydrate(snap); err != nil {
		return nil, err
	}

	// Replay minted tokens into the registry so ownership reads survive
	// restarts.
	if snap.Initialized {
		if err := rehydrateTokens(ctx, d, engine); err != nil {
			return nil, err
		}
	} else {
		if err := bootstrap(ctx, c, d, engine); err != nil {
			return nil, err
		}
	}

	xzap.WithContext(ctx).Info("engine ready",
		zap.Uint64("chain_id", c.Domain.ChainID),
		zap.Bool("minting_active", engine.MintingActive()),
		zap.Uint64("next_token_id", engine.NextTokenID()))
	return &ServerCtx{C: c, Dao: d, Engine: engine}, nil
}

func rehydrateTokens(ctx context.Context, d *dao.Dao, engine *core.Engine) error {
	var cubes []dao.CubeRecord
	if err := d.DB.WithContext(ctx).Table(dao.CubeTableName()).Find(&cubes).Error; err != nil {
		return errors.Wrap(err, "load cubes")
	}
	for _, cube := range cubes {
		engine.Tokens().Mint(common.HexToAddress(cube.Owner), cube.TokenID, cube.TokenURI)
	}
	return nil
}

// bootstrap fires the one-time initialization latch on first boot, granting
// the configured admin principal and persisting the resulting state.
func bootstrap(ctx context.Context, c *config.Config, d *dao.Dao, engine *core.Engine) error {
	if !common.IsHexAddress(c.Admin.Address) {
		return errors.Errorf("invalid bootstrap admin address %q", c.Admin.Address)
	}
	admin := common.HexToAddress(c.Admin.Address)
	if _, err := engine.Initialize(admin); err != nil {
		return err
	}
	if err := d.GrantRole(ctx, core.RoleDefaultAdmin.Hex(), admin.Hex()); err != nil {
		return err
	}
	if err := d.GrantRole(ctx, core.RoleUpgrader.Hex(), admin.Hex()); err != nil {
		return err
	}
	return d.SaveEngineState(ctx, &dao.EngineState{
		Initialized:   true,
		MintingActive: engine.MintingActive(),
		NextTokenID:   engine.NextTokenID(),
		Balance:       new(big.Int).String(),
	})
}
