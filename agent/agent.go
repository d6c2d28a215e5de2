package agent

import (
	"sync"
	"time"

	"github.com/flowforge/flowforge/adapter"
	"github.com/flowforge/flowforge/config"
	"github.com/flowforge/flowforge/engine"
	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/metadata"
	"github.com/flowforge/flowforge/persistence"
	redisdao "github.com/flowforge/flowforge/persistence/redis"
	"github.com/flowforge/flowforge/rest"
	"github.com/flowforge/flowforge/service"
	"github.com/flowforge/flowforge/trigger"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Agent struct {
	Config           config.Config
	registry         *adapter.Registry
	workflowService  metadata.WorkflowService
	executionDao     persistence.ExecutionDao
	executionService *service.ExecutionService
	scheduler        *trigger.Scheduler
	eventBus         *trigger.EventBus
	httpServer       *rest.Server
	shutdown         bool
	shutdownLock     sync.Mutex
	wg               sync.WaitGroup
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config: conf,
	}
	setup := []func() error{
		a.setupStorage,
		a.setupRegistry,
		a.setupExecutionService,
		a.setupTriggers,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	if a.Config.StorageType == config.STORAGE_TYPE_REDIS {
		conf := redisdao.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		}
		a.workflowService = metadata.NewWorkflowService(redisdao.NewRedisWorkflowDao(conf))
		a.executionDao = redisdao.NewRedisExecutionDao(conf)
		return nil
	}
	a.workflowService = metadata.NewWorkflowService(metadata.NewInMemMetadataStorage())
	a.executionDao = persistence.NewInMemExecutionDao()
	return nil
}

// setupRegistry builds the adapter registry from process configuration.
// An adapter whose required credential is missing is reported at
// startup and left unregistered; it never fails mid-execution with a
// credential error.
func (a *Agent) setupRegistry() error {
	a.registry = adapter.NewRegistry(adapter.NewFormatterAdapter())
	a.registry.Register(adapter.NewWebhookAdapter(a.Config.Webhook.DefaultURL))

	db, err := gorm.Open(sqlite.Open(a.Config.StoreDBPath), &gorm.Config{})
	if err != nil {
		return err
	}
	store, err := adapter.NewStoreAdapter(db)
	if err != nil {
		return err
	}
	a.registry.Register(store)

	if payment, err := adapter.NewPaymentAdapter(a.Config.Payment.APIKey, a.Config.Payment.BaseURL); err != nil {
		logger.Error("payment adapter disabled", zap.Error(err))
	} else {
		a.registry.Register(payment)
	}
	if email, err := adapter.NewEmailAdapter(a.Config.Email.APIKey, a.Config.Email.BaseURL); err != nil {
		logger.Error("email adapter disabled", zap.Error(err))
	} else {
		a.registry.Register(email)
	}
	return nil
}

func (a *Agent) setupExecutionService() error {
	executor := engine.NewWorkflowExecutor(a.registry, a.executionDao,
		time.Duration(a.Config.NodeTimeoutSeconds)*time.Second)
	a.executionService = service.NewExecutionService(a.workflowService, executor, a.executionDao)
	return nil
}

func (a *Agent) setupTriggers() error {
	a.scheduler = trigger.NewScheduler(a.workflowService, a.executionService, a.Config.SchedulerTickSeconds, &a.wg)
	a.eventBus = trigger.NewEventBus(a.workflowService, a.executionService, &a.wg)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.workflowService, a.executionService)
	return err
}

func (a *Agent) EventBus() *trigger.EventBus {
	return a.eventBus
}

func (a *Agent) Start() error {
	a.scheduler.Start()
	a.eventBus.Start()
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	a.scheduler.Stop()
	a.eventBus.Stop()
	if err := a.httpServer.Stop(); err != nil {
		return err
	}
	a.wg.Wait()
	return nil
}
