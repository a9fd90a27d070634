// Package bootstrap wires the services shared by the API server, the lambdas
// and the admin CLI from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/config"
	"github.com/chris/retailer-services/pkg/ledger"
	"github.com/chris/retailer-services/pkg/notify"
	"github.com/chris/retailer-services/pkg/otp"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/ratelimit"
	"github.com/chris/retailer-services/pkg/storage"
	dydbstore "github.com/chris/retailer-services/pkg/storage/dynamodb"
	"github.com/chris/retailer-services/pkg/storage/memory"
	"github.com/chris/retailer-services/pkg/submission"
	"github.com/redis/go-redis/v9"
)

// App holds the wired services.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Store    storage.Storage
	Ledger   *ledger.Ledger
	OTP      *otp.Manager
	Tokens   *account.TokenIssuer
	Accounts *account.Service
	Workflow *submission.Workflow
	Checkout *checkout.Service
	Gateway  *payment.Client
}

// New builds every service from cfg. AWS clients are only created when the
// configuration asks for DynamoDB or an SQS queue.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var awsCfg *aws.Config
	if cfg.App.StoreBackend == "dynamodb" || cfg.SQS.OtpQueueURL != "" || cfg.SQS.ConfirmationQueueURL != "" {
		loaded, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		awsCfg = &loaded
	}

	store := newStore(cfg, awsCfg)
	l := ledger.New(store, ledger.WithLogger(logger))

	var sender notify.Sender = notify.NewLogSender(logger)
	var sqsClient *sqs.Client
	if awsCfg != nil && (cfg.SQS.OtpQueueURL != "" || cfg.SQS.ConfirmationQueueURL != "") {
		sqsClient = sqs.NewFromConfig(*awsCfg)
	}
	if cfg.SQS.OtpQueueURL != "" {
		sender = notify.NewSQSSender(sqsClient, cfg.SQS.OtpQueueURL, cfg.SQS.OtpTemplate)
	} else {
		logger.Warn("SQS_OTP_QUEUE_URL not set, codes are written to the log")
	}

	codes := otp.NewManager(store, sender, cfg.OTP, otp.WithLogger(logger))
	tokens := account.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := account.New(store, codes, l, tokens,
		account.WithHashCost(cfg.Auth.PasswordHashCost),
		account.WithLogger(logger),
	)

	gateway := payment.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
		payment.WithBaseURL(cfg.Razorpay.BaseURL),
		payment.WithTimeout(cfg.Razorpay.Timeout),
	)
	workflow := submission.New(store, store, l, gateway,
		submission.WithCurrency(cfg.Razorpay.Currency),
		submission.WithLogger(logger),
	)

	checkoutOpts := []checkout.Option{
		checkout.WithWebhookSecret(cfg.Razorpay.WebhookSecret),
		checkout.WithLogger(logger),
	}
	if cfg.SQS.ConfirmationQueueURL != "" {
		checkoutOpts = append(checkoutOpts, checkout.WithDispatcher(checkout.NewSQSDispatcher(sqsClient, cfg.SQS.ConfirmationQueueURL)))
	}
	payments := checkout.New(store, l, gateway, cfg.Razorpay.KeySecret, checkoutOpts...)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Ledger:   l,
		OTP:      codes,
		Tokens:   tokens,
		Accounts: accounts,
		Workflow: workflow,
		Checkout: payments,
		Gateway:  gateway,
	}, nil
}

func newStore(cfg *config.Config, awsCfg *aws.Config) storage.Storage {
	if cfg.App.StoreBackend == "memory" {
		return memory.New()
	}

	client := dynamodb.NewFromConfig(*awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})
	return dydbstore.New(client, dydbstore.Tables{
		Challenges:   cfg.DynamoDB.ChallengesTable,
		Wallets:      cfg.DynamoDB.WalletsTable,
		Transactions: cfg.DynamoDB.TransactionsTable,
		Submissions:  cfg.DynamoDB.SubmissionsTable,
		Orders:       cfg.DynamoDB.OrdersTable,
		Users:        cfg.DynamoDB.UsersTable,
		Options:      cfg.DynamoDB.OptionsTable,
	})
}

// NewAuthLimiter connects to Redis and returns the limiter guarding the auth
// routes. Both are nil when no Redis address is configured. The caller closes
// the client.
func NewAuthLimiter(cfg *config.Config) (*ratelimit.RedisLimiter, *redis.Client) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return ratelimit.NewRedisLimiter(rdb, cfg.Auth.RateLimit, cfg.Auth.RateLimitWindow, ratelimit.AuthPrefix), rdb
}
