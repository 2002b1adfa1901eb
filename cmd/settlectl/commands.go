package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/magabrotheeeer/settlement-gateway/internal/apiclient"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
	"github.com/magabrotheeeer/settlement-gateway/internal/rabbitmq"
)

var errUsage = errors.New("usage: settlectl [-api URL] [-token TOKEN] <claims|settlements|token|events> ...")

type cli struct {
	client *apiclient.Client
	out    io.Writer
	log    *slog.Logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("settlectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	api := fs.String("api", apiclient.BaseURL(os.Getenv("SETTLEMENT_DOMAIN"), ""), "gateway base URL")
	token := fs.String("token", os.Getenv("SETTLEMENT_TOKEN"), "session token")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	c := &cli{
		client: apiclient.New(*api, apiclient.StaticToken(*token), apiclient.WithLogger(logger)),
		out:    stdout,
		log:    logger,
	}

	if err := c.dispatch(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, errUsage)
			return 2
		}
		if apierr.IsLimitReached(err) {
			fmt.Fprintln(stderr, "claim limit reached, upgrade the plan or buy a claim")
			return 1
		}
		logger.Error("command failed", sl.Err(err))
		return 1
	}
	return 0
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "token" {
		return c.mintToken(args[1:])
	}
	if len(args) < 2 {
		return errUsage
	}
	group, cmd, rest := args[0], args[1], args[2:]

	switch group + " " + cmd {
	case "claims list":
		claims, err := c.client.UserSettlements.List(ctx)
		if err != nil {
			return err
		}
		return c.print(claims)
	case "claims stats":
		st, err := c.client.UserSettlements.Stats(ctx)
		if err != nil {
			return err
		}
		return c.print(st)
	case "claims track":
		return c.track(ctx, rest)
	case "claims untrack":
		if len(rest) != 1 {
			return errUsage
		}
		if err := c.client.UserSettlements.Delete(ctx, rest[0]); err != nil {
			return err
		}
		c.log.Info("claim deleted", slog.String("claim_id", rest[0]))
		return nil
	case "claims status":
		return c.status(ctx, rest)
	case "settlements list":
		return c.settlements(ctx, rest)
	case "events tail":
		return c.tail(ctx, rest)
	}
	return errUsage
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) track(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("claims track", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	result := fs.String("result", "", "eligibility result: LIKELY, POSSIBLE or UNLIKELY")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	req := models.CreateUserSettlementRequest{SettlementID: fs.Arg(0)}
	if *result != "" {
		r := models.EligibilityResult(strings.ToUpper(*result))
		req.EligibilityResult = &r
	}
	claim, err := c.client.UserSettlements.Create(ctx, req)
	if err != nil {
		return err
	}
	return c.print(claim)
}

func (c *cli) status(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("claims status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	confirmation := fs.String("confirmation", "", "claim confirmation number")
	notes := fs.String("notes", "", "notes")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return errUsage
	}

	st := models.ClaimStatus(strings.ToUpper(fs.Arg(1)))
	patch := models.UserSettlementPatch{Status: &st}
	if *confirmation != "" {
		patch.ClaimConfirmationNumber = confirmation
	}
	if *notes != "" {
		patch.Notes = notes
	}
	if st == models.ClaimFiledPending {
		now := time.Now().UTC()
		patch.FiledAt = &now
	}

	claim, err := c.client.UserSettlements.Update(ctx, fs.Arg(0), patch)
	if err != nil {
		return err
	}
	return c.print(claim)
}

func (c *cli) settlements(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("settlements list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var f models.SettlementFilter
	fs.StringVar(&f.Search, "search", "", "full text search")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.StringVar(&f.Status, "status", "", "settlement status")
	fs.IntVar(&f.Limit, "limit", 0, "page size")
	fs.IntVar(&f.Offset, "offset", 0, "page offset")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	list, err := c.client.Settlements.List(ctx, f)
	if err != nil {
		return err
	}
	return c.print(list)
}

// mintToken выпускает HS256-токен для локальной разработки с SUPABASE_JWT_SECRET.
func (c *cli) mintToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	secret := fs.String("secret", os.Getenv("SUPABASE_JWT_SECRET"), "signing secret")
	sub := fs.String("sub", "", "external subject id")
	email := fs.String("email", "", "email")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil || *secret == "" || *sub == "" {
		return errUsage
	}

	token, err := jwt.NewJWTMaker(*secret, *ttl).GenerateToken(*sub, *email)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, token)
	return err
}

func (c *cli) tail(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events tail", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	amqpURL := fs.String("amqp", os.Getenv("AMQP_URL"), "broker URL")
	exchange := fs.String("exchange", "claims", "exchange")
	queue := fs.String("queue", "claims.audit", "queue")
	if err := fs.Parse(args); err != nil || *amqpURL == "" {
		return errUsage
	}

	conn, err := rabbitmq.Connect(ctx, *amqpURL, 1, 0)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := rabbitmq.SetupChannel(conn, *exchange, []rabbitmq.QueueConfig{{QueueName: *queue, RoutingKey: "claim.#"}})
	if err != nil {
		return err
	}
	defer ch.Close()

	c.log.Info("tailing claim events", slog.String("queue", *queue))
	return rabbitmq.ConsumerMessage(ctx, ch, *queue, c.log, func(body []byte) error {
		var ev models.ClaimEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			c.log.Warn("malformed claim event", slog.String("body", string(body)), sl.Err(err))
			return nil
		}
		_, err := fmt.Fprintf(c.out, "%s %s claim=%s user=%s status=%s\n",
			ev.OccurredAt.Format(time.RFC3339), ev.Type, ev.ClaimID, ev.UserID, ev.Status)
		return err
	})
}
