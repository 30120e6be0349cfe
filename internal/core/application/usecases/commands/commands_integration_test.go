package commands_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	postgres_adapter "orderengine/internal/adapters/out/postgres"
	"orderengine/internal/adapters/out/postgres/pgtest"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/catalog"
	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type CommandsIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	factory    *postgres_adapter.GormUnitOfWorkFactory
	restaurant *catalog.Restaurant
	soup       *catalog.MenuItem
}

func (suite *CommandsIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (suite *CommandsIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.pg.Truncate())

	var err error
	suite.restaurant, err = catalog.NewRestaurant(kernel.NewUUID(), "Casa", kernel.NewMoney(3000), 20)
	suite.Require().NoError(err)
	suite.soup, err = catalog.NewMenuItem(kernel.NewUUID(), suite.restaurant.ID(), "Soup", kernel.NewMoney(10000), 12)
	suite.Require().NoError(err)

	repo := suite.factory.Create().CatalogRepository()
	suite.Require().NoError(repo.AddRestaurant(ctx, suite.restaurant))
	suite.Require().NoError(repo.AddMenuItem(ctx, suite.soup))
}

func (suite *CommandsIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Stop(context.Background()))
}

func (suite *CommandsIntegrationTestSuite) uowFactory() commands.UoWFactory {
	return uowFactoryFunc(func() commands.UoW { return suite.factory.Create() })
}

func (suite *CommandsIntegrationTestSuite) createHandler(numbers order.NumberGenerator) commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(suite.uowFactory(), kernel.SystemClock{}, numbers, discardLogger()).
		WithRetryPolicy(commands.RetryPolicy{MaxRetries: 5, InitialInterval: 5 * time.Millisecond})
}

func (suite *CommandsIntegrationTestSuite) command(couponCode string) commands.CreateOrderCommand {
	cmd, err := commands.NewCreateOrderCommand(suite.restaurant.ID(), nil, nil, couponCode, "web", "",
		[]commands.OrderItemInput{{MenuItemID: suite.soup.ID(), Quantity: 1}})
	suite.Require().NoError(err)
	return cmd
}

func (suite *CommandsIntegrationTestSuite) TestConcurrentCreationsRedeemSingleUseCouponOnce() {
	const buyers = 8
	once, err := coupon.NewFixedCoupon(kernel.NewUUID(), suite.restaurant.ID(), "ONCE", kernel.NewMoney(2500), 1, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().CouponRepository().Add(context.Background(), once))

	handler := suite.createHandler(order.RandomNumberGenerator{})

	var discounted, plain, rejected atomic.Int32
	g, ctx := errgroup.WithContext(context.Background())
	for range buyers {
		g.Go(func() error {
			o, err := handler.Handle(ctx, suite.command("ONCE"))
			// Buyers arriving after the winner committed see an exhausted coupon.
			if errors.Is(err, errs.ErrValidation) {
				rejected.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			if o.IsCouponRedeemed() {
				discounted.Add(1)
			} else {
				plain.Add(1)
			}
			return nil
		})
	}

	suite.Require().NoError(g.Wait())
	suite.Equal(int32(1), discounted.Load())
	suite.Equal(int32(buyers-1), plain.Load()+rejected.Load())

	stored, err := suite.factory.Create().CouponRepository().Get(context.Background(), once.ID())
	suite.Require().NoError(err)
	suite.Equal(1, stored.UsageCount())
}

func (suite *CommandsIntegrationTestSuite) TestNumberCollisionIsRetriedInsideTheTransaction() {
	ctx := context.Background()
	taken, err := order.ParseNumber("ORD-20261015-ABCDEF")
	suite.Require().NoError(err)
	fresh, err := order.ParseNumber("ORD-20261015-123456")
	suite.Require().NoError(err)

	first := suite.createHandler(order.NumberGeneratorFunc(func(time.Time) order.Number { return taken }))
	_, err = first.Handle(ctx, suite.command(""))
	suite.Require().NoError(err)

	issued := 0
	second := suite.createHandler(order.NumberGeneratorFunc(func(time.Time) order.Number {
		issued++
		if issued == 1 {
			return taken
		}
		return fresh
	}))
	o, err := second.Handle(ctx, suite.command(""))

	suite.Require().NoError(err)
	suite.Equal(fresh, o.Number())

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(fresh, stored.Number())
	suite.Len(stored.Items(), 1)
}

func (suite *CommandsIntegrationTestSuite) TestLifecycle() {
	ctx := context.Background()
	tenPercent, err := coupon.NewPercentageCoupon(kernel.NewUUID(), suite.restaurant.ID(), "TEN", 10, 1, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().CouponRepository().Add(ctx, tenPercent))

	created, err := suite.createHandler(order.RandomNumberGenerator{}).Handle(ctx, suite.command("TEN"))
	suite.Require().NoError(err)
	suite.Equal(int64(12000), created.Total().Amount())

	orderUoW := orderUoWFactoryFunc(func() commands.OrderUoW { return suite.factory.Create() })
	pricingUoW := pricingUoWFactoryFunc(func() commands.PricingUoW { return suite.factory.Create() })
	transition := commands.NewTransitionOrderStatusCommandHandler(orderUoW, kernel.SystemClock{}, discardLogger())
	recompute := commands.NewRecomputeOrderTotalsCommandHandler(pricingUoW, kernel.SystemClock{}, discardLogger())

	for _, status := range []string{"IN_PROGRESS", "READY", "COMPLETED"} {
		cmd, err := commands.NewTransitionOrderStatusCommand(created.ID(), status)
		suite.Require().NoError(err)
		_, err = transition.Handle(ctx, cmd)
		suite.Require().NoError(err)
	}

	// The coupon is exhausted now; the order keeps the discount it redeemed.
	cmd, err := commands.NewRecomputeOrderTotalsCommand(created.ID())
	suite.Require().NoError(err)
	repriced, err := recompute.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(int64(1000), repriced.Discount().Amount())
	suite.Equal(int64(12000), repriced.Total().Amount())

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, stored.Status())
	ts := stored.Timestamps()
	suite.NotNil(ts.InProgressAt)
	suite.NotNil(ts.ReadyAt)
	suite.NotNil(ts.CompletedAt)
	suite.False(ts.CompletedAt.Before(*ts.ReadyAt))
	suite.False(ts.ReadyAt.Before(*ts.InProgressAt))

	cancel, err := commands.NewTransitionOrderStatusCommand(created.ID(), "CANCELLED")
	suite.Require().NoError(err)
	_, err = transition.Handle(ctx, cancel)
	suite.Require().Error(err)
}

func TestCommandsIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(CommandsIntegrationTestSuite))
}
