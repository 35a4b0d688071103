package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/holiman/uint256"
	app "github.com/muhammadchandra19/token-exchange/internal/app/engine"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	memstate "github.com/muhammadchandra19/token-exchange/internal/infrastructure/memory/state"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/custody"
	eventpublisher "github.com/muhammadchandra19/token-exchange/internal/usecase/event-publisher"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/ledger"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/orderbook"
	"github.com/muhammadchandra19/token-exchange/pkg/config"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
)

const exchangeAddress assetv1.Address = "0x00000000000000000000000000000000000000e1"

// simulation drives random commands against an in-process engine.
type simulation struct {
	engine *app.Engine
	rnd    *rand.Rand
	users  []assetv1.Address
	assets []assetv1.ID
	orders []uint64

	committed map[string]int
	rejected  map[string]int
}

// address builds a deterministic 20 byte hex address for user i.
func address(i int) assetv1.Address {
	return assetv1.Address(fmt.Sprintf("0x%040x", i+1))
}

// amount returns a random human amount up to max whole tokens with 3 decimal places.
func (s *simulation) amount(max float64) *uint256.Int {
	v, err := assetv1.ParseUnits(fmt.Sprintf("%.3f", s.rnd.Float64()*max), assetv1.Decimals)
	if err != nil {
		panic(err)
	}
	return v
}

func (s *simulation) user() assetv1.Address {
	return s.users[s.rnd.Intn(len(s.users))]
}

func (s *simulation) asset() assetv1.ID {
	return s.assets[s.rnd.Intn(len(s.assets))]
}

func (s *simulation) record(action string, err error) {
	if err != nil {
		s.rejected[action+"/"+errors.CodeOf(err)]++
		return
	}
	s.committed[action]++
}

// fraction returns a random share of max in thousandths, so most amounts stay covered.
func (s *simulation) fraction(max *uint256.Int) *uint256.Int {
	share := new(uint256.Int).Mul(max, uint256.NewInt(uint64(s.rnd.Intn(1001))))
	return share.Div(share, uint256.NewInt(1000))
}

// issue issues n assets to the first holder, then spreads a share of each around.
func (s *simulation) issue(ctx context.Context, n int, supply uint64) error {
	for i := 0; i < n; i++ {
		meta := assetv1.Metadata{Name: fmt.Sprintf("Token %d", i), Symbol: fmt.Sprintf("TK%d", i)}
		asset, err := s.engine.Issue(ctx, meta, s.users[0], uint256.NewInt(supply))
		if err != nil {
			return err
		}
		s.assets = append(s.assets, asset.ID)

		share := new(uint256.Int).Div(asset.TotalSupply, uint256.NewInt(uint64(2*len(s.users))))
		for _, h := range s.users[1:] {
			if err := s.engine.Transfer(ctx, asset.ID, s.users[0], h, share); err != nil {
				return err
			}
		}
	}
	return nil
}

// step performs one weighted random command.
func (s *simulation) step(ctx context.Context, maxAmount float64) {
	switch p := s.rnd.Intn(100); {
	case p < 30:
		err := s.engine.Transfer(ctx, s.asset(), s.user(), s.user(), s.amount(maxAmount))
		s.record("transfer", err)

	case p < 40:
		err := s.engine.Approve(ctx, s.asset(), s.user(), s.user(), s.amount(maxAmount))
		s.record("approve", err)

	case p < 50:
		err := s.engine.DelegatedTransfer(ctx, s.asset(), s.user(), s.user(), s.user(), s.amount(maxAmount))
		s.record("delegated_transfer", err)

	case p < 65:
		holder, asset, amt := s.user(), s.asset(), s.amount(maxAmount)
		if err := s.engine.Approve(ctx, asset, holder, exchangeAddress, amt); err != nil {
			s.record("approve", err)
			return
		}
		_, err := s.engine.Deposit(ctx, asset, holder, amt)
		s.record("deposit", err)

	case p < 75:
		holder, asset := s.user(), s.asset()
		_, err := s.engine.Withdraw(ctx, asset, holder, s.fraction(s.engine.CustodyBalanceOf(asset, holder)))
		s.record("withdraw", err)

	case p < 90:
		owner, give, get := s.user(), s.asset(), s.asset()
		amountGive := s.fraction(s.engine.CustodyBalanceOf(give, owner))
		order, err := s.engine.CreateOrder(ctx, owner, get, s.amount(maxAmount), give, amountGive)
		s.record("create_order", err)
		if err == nil {
			s.orders = append(s.orders, order.ID)
		}

	default:
		if len(s.orders) == 0 {
			return
		}
		// callers are random too, so most cancels by a stranger get rejected
		caller := s.user()
		id := s.orders[s.rnd.Intn(len(s.orders))]
		if s.rnd.Intn(2) == 0 {
			caller = s.engine.GetOrder(id).Owner
		}
		_, err := s.engine.CancelOrder(ctx, id, caller)
		s.record("cancel_order", err)
	}
}

func main() {
	var (
		count      = flag.Int("count", 1000, "Number of random commands to run")
		users      = flag.Int("users", 8, "Number of simulated holders")
		assets     = flag.Int("assets", 3, "Number of assets to issue")
		supply     = flag.Uint64("supply", 1000000, "Whole-token supply of each asset")
		maxAmount  = flag.Float64("max-amount", 500, "Upper bound of a random amount in whole tokens")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		brokers    = flag.String("brokers", "", "Kafka broker addresses (comma-separated); events are relayed when set")
		topic      = flag.String("topic", "token-exchange.events", "Kafka topic name")
		feePercent = flag.Uint("fee-percent", 10, "Exchange fee percent")
		level      = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(*level)))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *users < 2 || *assets < 1 {
		log.GetZap().Fatal("Need at least 2 users and 1 asset")
	}

	ctx := context.Background()

	var publisher eventv1.Publisher
	if *brokers != "" {
		publisher = eventpublisher.NewPublisher(config.KafkaConfig{
			Brokers:      strings.Split(*brokers, ","),
			Topic:        *topic,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
		}, log)
		defer publisher.Close()
	}

	holders := make([]assetv1.Address, *users)
	for i := range holders {
		holders[i] = address(i)
	}

	l := ledger.NewLedger()
	engine, err := app.NewEngine(
		l,
		custody.NewCustody(l, exchangeAddress),
		orderbook.NewOrderBook(),
		memstate.NewRepository(),
		nil,
		publisher,
		log,
		exchangev1.Config{
			Address:    exchangeAddress,
			FeeAccount: holders[0],
			FeePercent: uint32(*feePercent),
		},
	)
	if err != nil {
		log.GetZap().Fatal("Failed to create engine: " + err.Error())
	}
	if err := engine.Start(ctx); err != nil {
		log.GetZap().Fatal("Failed to start engine: " + err.Error())
	}

	sim := &simulation{
		engine:    engine,
		rnd:       rand.New(rand.NewSource(*seed)),
		users:     holders,
		committed: make(map[string]int),
		rejected:  make(map[string]int),
	}

	if err := sim.issue(ctx, *assets, *supply); err != nil {
		log.GetZap().Fatal("Failed to fund holders: " + err.Error())
	}

	log.Info("Simulation started",
		logger.Field{Key: "seed", Value: *seed},
		logger.Field{Key: "count", Value: *count},
		logger.Field{Key: "users", Value: *users},
		logger.Field{Key: "assets", Value: *assets},
	)

	start := time.Now()
	for i := 0; i < *count; i++ {
		sim.step(ctx, *maxAmount)

		if (i+1)%1000 == 0 {
			if err := engine.Verify(); err != nil {
				log.GetZap().Fatal(fmt.Sprintf("Invariant violated after %d commands: %v", i+1, err))
			}
		}
	}
	elapsed := time.Since(start)

	verifyErr := engine.Verify()

	if err := engine.Stop(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	fmt.Printf("seed:      %d\n", *seed)
	fmt.Printf("commands:  %d in %v\n", *count, elapsed)
	fmt.Printf("events:    %d\n", engine.Seq())
	fmt.Printf("orders:    %d\n", engine.OrderCount())
	printCounts("committed", sim.committed)
	printCounts("rejected", sim.rejected)

	fmt.Println("custody:")
	for _, id := range sim.assets {
		asset, _ := engine.Asset(id)
		fmt.Printf("  %-6s exchange=%s supply=%s\n", asset.Symbol,
			assetv1.FormatUnits(engine.BalanceOf(id, exchangeAddress), asset.Decimals),
			assetv1.FormatUnits(asset.TotalSupply, asset.Decimals),
		)
	}

	if verifyErr != nil {
		log.GetZap().Fatal("Invariant violated: " + verifyErr.Error())
	}
	fmt.Println("verify:    ok")
}

func printCounts(title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-40s %d\n", k, counts[k])
	}
}
