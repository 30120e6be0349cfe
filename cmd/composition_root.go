package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "orderengine/internal/adapters/in/http"
	"orderengine/internal/adapters/out/postgres"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB).WithLogger(logger),
		clock:      kernel.SystemClock{},
		logger:     logger,
	}
}

func (c *CompositionRoot) retryPolicy() commands.RetryPolicy {
	policy := commands.DefaultRetryPolicy()
	policy.MaxRetries = c.cfg.StoreRetries
	return policy
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	h := commands.NewCreateOrderCommandHandler(f, c.clock, order.RandomNumberGenerator{}, c.logger).
		WithRetryPolicy(c.retryPolicy()).
		WithNumberAttempts(c.cfg.OrderNumberAttempts)
	return &h
}

func (c *CompositionRoot) CreateTransitionOrderStatusCommandHandler() *commands.TransitionOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewTransitionOrderStatusCommandHandler(f, c.clock, c.logger).WithRetryPolicy(c.retryPolicy())
	return &h
}

func (c *CompositionRoot) CreateRecomputeOrderTotalsCommandHandler() *commands.RecomputeOrderTotalsCommandHandler {
	var f commands.PricingUoWFactory = FuncPricingUoWFactory(func() commands.PricingUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewRecomputeOrderTotalsCommandHandler(f, c.clock, c.logger).WithRetryPolicy(c.retryPolicy())
	return &h
}

func (c *CompositionRoot) CreateCancelStaleOrdersCommandHandler() *commands.CancelStaleOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewCancelStaleOrdersCommandHandler(f, c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSalesSummaryQueryHandler() queries.GetSalesSummaryQueryHandler {
	return queries.NewGetSalesSummaryQueryHandler(c.gormDB, c.clock)
}

// CreateRouter wires every use case behind the HTTP API.
func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	server := httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderStatusCommandHandler(),
		c.CreateRecomputeOrderTotalsCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateGetSalesSummaryQueryHandler(),
		c.logger,
	)
	router, err := httpin.NewRouter(ctx, server, c.logger)
	if err != nil {
		return nil, fmt.Errorf("build http router: %w", err)
	}
	return router, nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateCancelStaleOrdersCommandHandler(), jobs.StaleOrderSettings{
		Schedule:  c.cfg.StaleOrderSchedule,
		TTL:       c.cfg.StaleOrderTTL,
		BatchSize: c.cfg.StaleOrderBatchSize,
	}, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPricingUoWFactory func() commands.PricingUoW

func (f FuncPricingUoWFactory) Create() commands.PricingUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
