// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fluentai-go/internal/config"
	"fluentai-go/internal/handler"
	"fluentai-go/internal/middleware"
	"fluentai-go/internal/repository"
	"fluentai-go/internal/service"
	"fluentai-go/pkg/database"
	"fluentai-go/pkg/kafka"
	"fluentai-go/pkg/llm"
	"fluentai-go/pkg/log"
	"fluentai-go/pkg/speech"
	"fluentai-go/pkg/tasks"
	"fluentai-go/pkg/token"
)

// kafkaDispatcher 把词汇补全任务投递到 Kafka 主题。
type kafkaDispatcher struct{}

func (kafkaDispatcher) Dispatch(task tasks.WordEnrichmentTask) {
	if err := kafka.ProduceEnrichmentTask(task); err != nil {
		log.Errorf("投递补全任务失败 (user=%s word=%s): %v", task.UserID, task.Word, err)
	}
}

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 按配置初始化存储后端
	var blobStore repository.BlobStore
	switch cfg.Storage.Driver {
	case "mysql":
		database.InitMySQL(cfg.Storage.MySQL.DSN)
		store, err := repository.NewGormBlobStore(database.DB)
		if err != nil {
			log.Fatalf("初始化 MySQL 存储失败: %v", err)
		}
		blobStore = store
	default:
		database.InitRedis(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		blobStore = repository.NewRedisBlobStore(database.RDB)
	}

	// 4. 初始化 Repository
	stateRepo := repository.NewStateRepository(blobStore)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenExpireHours)
	llmClient := llm.NewClient(cfg.LLM)
	speechClient := speech.NewClient(cfg.Speech)

	// 词汇补全任务的派发方式：默认进程内直接执行，
	// kafka 模式下经消息队列由后台消费者执行。
	var dispatcher service.EnrichmentDispatcher
	if cfg.Enrichment.Mode == "kafka" {
		kafka.InitProducer(cfg.Kafka)
		dispatcher = kafkaDispatcher{}
	}

	userService := service.NewUserService(stateRepo)
	sessionService := service.NewSessionService(stateRepo)
	scenarioService := service.NewScenarioService(llmClient)
	dialogueService := service.NewDialogueService(sessionService, llmClient, speechClient)
	vocabService := service.NewVocabularyService(stateRepo, llmClient, dispatcher)
	activityService := service.NewActivityService(stateRepo)

	// 6. 启动后台 Kafka 消费者，补全任务回到 vocabService.Process 执行
	if cfg.Enrichment.Mode == "kafka" {
		go kafka.StartConsumer(cfg.Kafka, vocabService)
	}

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	userHandler := handler.NewUserHandler(userService, jwtManager)
	scenarioHandler := handler.NewScenarioHandler(scenarioService)
	sessionHandler := handler.NewSessionHandler(sessionService, dialogueService, scenarioService)
	vocabHandler := handler.NewVocabHandler(vocabService)
	activityHandler := handler.NewActivityHandler(activityService)
	speechHandler := handler.NewSpeechHandler(speechClient)
	chatHandler := handler.NewChatHandler(dialogueService, activityService)

	apiV1 := r.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/login", userHandler.Login)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager))
			{
				authed.GET("/me", userHandler.Me)
				authed.PUT("/me", userHandler.UpdateProfile)
				authed.POST("/logout", userHandler.Logout)
				authed.POST("/purge", userHandler.Purge)
			}
		}

		// Scenario 路由组，需要认证
		scenarios := apiV1.Group("/scenarios")
		scenarios.Use(middleware.AuthMiddleware(jwtManager))
		{
			scenarios.GET("", scenarioHandler.List)
			scenarios.POST("", scenarioHandler.Propose)
		}

		// Session 路由组，需要认证
		sessions := apiV1.Group("/sessions")
		sessions.Use(middleware.AuthMiddleware(jwtManager))
		{
			sessions.GET("", sessionHandler.List)
			sessions.GET("/grouped", sessionHandler.Grouped)
			sessions.POST("/open", sessionHandler.Open)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.POST("/:id/turns", sessionHandler.Turn)
			sessions.GET("/:id/task", sessionHandler.Task)
		}

		// Vocabulary 路由组，需要认证
		vocabulary := apiV1.Group("/vocabulary")
		vocabulary.Use(middleware.AuthMiddleware(jwtManager))
		{
			vocabulary.GET("", vocabHandler.List)
			vocabulary.POST("", vocabHandler.Save)
			vocabulary.POST("/:id/synonyms", vocabHandler.CreateSynonym)
			vocabulary.DELETE("/:id", vocabHandler.Delete)
		}

		// Activity 路由组，需要认证
		activity := apiV1.Group("/activity")
		activity.Use(middleware.AuthMiddleware(jwtManager))
		{
			activity.POST("", activityHandler.Record)
			activity.GET("/week", activityHandler.Week)
		}

		// Speech 路由组，需要认证
		speechGroup := apiV1.Group("/speech")
		speechGroup.Use(middleware.AuthMiddleware(jwtManager))
		{
			speechGroup.POST("/transcribe", speechHandler.Transcribe)
		}

		// Chat 路由 (WebSocket)
		chatGroup := apiV1.Group("/chat")
		chatGroup.Use(middleware.AuthMiddleware(jwtManager))
		{
			chatGroup.GET("/websocket-token", chatHandler.IssueTicket)
		}
	}
	r.GET("/chat/:ticket", chatHandler.Handle)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
