package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	_ "github.com/Xushengqwer/paper_service/docs" // 确保导入了 docs 包
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	// 导入项目包
	appConfig "github.com/Xushengqwer/paper_service/config"
	"github.com/Xushengqwer/paper_service/constant"
	"github.com/Xushengqwer/paper_service/controller"
	"github.com/Xushengqwer/paper_service/dependencies"
	"github.com/Xushengqwer/paper_service/mq/consumer"
	"github.com/Xushengqwer/paper_service/mq/producer"
	"github.com/Xushengqwer/paper_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/paper_service/repo/redis"
	"github.com/Xushengqwer/paper_service/router"
	"github.com/Xushengqwer/paper_service/service"
	"github.com/Xushengqwer/paper_service/tasks"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	// 导入 OTel HTTP Client Instrumentation
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	// 导入 Zap
	"go.uber.org/zap"
)

// @title           Paper Service API
// @version         1.0
// @description     论文服务，提供论文投稿、版本管理、AI 评审、引用与评审评论等功能。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8083
// API 的主机和端口 (根据开发环境配置)

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.PaperConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试
	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	var tracerShutdown func(context.Context) error // 用于优雅关停
	if cfg.TracerConfig.Enabled {
		var err error
		tracerShutdown, err = sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		logger.Info("分布式追踪已初始化")
		// 当前服务不主动发起需要追踪的 HTTP 调用，仅初始化 Transport 备用
		_ = otelhttp.NewTransport(http.DefaultTransport)
		logger.Debug("OTel HTTP Transport 初始化完成 (暂未使用)")
	} else {
		logger.Info("分布式追踪已禁用")
		tracerShutdown = func(ctx context.Context) error { return nil } // 提供一个空操作关闭函数
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 COS 客户端 (论文附件存储)
	cos, cosErr := dependencies.InitCOS(&cfg.COSConfig, logger)
	if cosErr != nil {
		logger.Fatal("初始化 COS 客户端失败", zap.Error(cosErr))
	}
	logger.Info("COS 客户端初始化成功")

	// 4.4 Kafka 生产者
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，Kafka 生产者将为 nil")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	postRepo := mysql.NewPostRepository(db, logger)
	versionRepo := mysql.NewPaperVersionRepository(db, logger)
	reviewRepo := mysql.NewAiReviewRepository(db, logger)
	citationRepo := mysql.NewCitationRepository(db, logger)
	commentRepo := mysql.NewReviewCommentRepository(db, logger)
	logger.Debug("MySQL Repositories 初始化完成")

	reviewCacheRepo := redisrepo.NewReviewCacheRepository(rdb, logger)
	citationRankRepo := redisrepo.NewCitationRankRepository(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	extractor := service.NewCitationExtractor()
	paperService := service.NewPaperService(db, postRepo, versionRepo, reviewRepo, citationRepo, citationRankRepo, extractor, cos, kafkaProducer, logger)
	reviewService := service.NewReviewService(db, postRepo, versionRepo, reviewRepo, reviewCacheRepo, cos, kafkaProducer, logger)
	commentService := service.NewCommentService(postRepo, versionRepo, commentRepo, logger)
	adminReviewService := service.NewAdminReviewService(reviewRepo, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	paperController := controller.NewPaperController(paperService)
	reviewController := controller.NewReviewController(reviewService)
	commentController := controller.NewCommentController(commentService)
	adminReviewController := controller.NewAdminReviewController(adminReviewService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer // 存放所有消费者
	var consumerWg sync.WaitGroup      // 用于等待所有消费者 goroutine 结束

	// 创建一个可以被取消的 context，用于通知所有消费者停止
	var consumerCtx, consumerCancel = context.WithCancel(context.Background())

	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'paper_service_group'")
			groupID = "paper_service_group"
		}

		// --- 8.1 初始化并添加评审完成消费者 ---
		completedTopic := cfg.KafkaConfig.Topics.ReviewCompleted
		if completedTopic != "" {
			completedHandler := consumer.NewReviewCompletedHandler(logger, reviewService)
			completedConsumer, err := consumer.NewConsumer(
				&cfg.KafkaConfig,
				groupID,
				completedTopic,
				completedHandler,
				logger,
			)
			if err != nil {
				logger.Fatal("初始化评审完成 Kafka 消费者失败", zap.Error(err))
			}
			consumers = append(consumers, completedConsumer)
			logger.Info("评审完成 Kafka 消费者已准备就绪", zap.String("topic", completedTopic))
		} else {
			logger.Warn("ReviewCompleted topic 未配置，跳过评审完成消费者创建")
		}

		// --- 8.2 初始化并添加评审失败消费者 ---
		failedTopic := cfg.KafkaConfig.Topics.ReviewFailed
		if failedTopic != "" {
			failedHandler := consumer.NewReviewFailedHandler(logger, reviewService)
			failedConsumer, err := consumer.NewConsumer(
				&cfg.KafkaConfig,
				groupID,
				failedTopic,
				failedHandler,
				logger,
			)
			if err != nil {
				logger.Fatal("初始化评审失败 Kafka 消费者失败", zap.Error(err))
			}
			consumers = append(consumers, failedConsumer)
			logger.Info("评审失败 Kafka 消费者已准备就绪", zap.String("topic", failedTopic))
		} else {
			logger.Warn("ReviewFailed topic 未配置，跳过评审失败消费者创建")
		}

		// --- 8.3 启动所有已初始化的消费者 ---
		if len(consumers) > 0 {
			logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
			for _, c := range consumers {
				consumerWg.Add(1)
				go func(cons *consumer.Consumer) {
					defer consumerWg.Done()
					cons.Start(consumerCtx)
				}(c)
			}
		} else {
			logger.Warn("没有配置任何有效的 Kafka 消费者。")
		}
	} else {
		logger.Warn("Kafka Brokers 未配置，跳过所有 Kafka 消费者初始化。")
	}

	// --- 9. 初始化定时任务 ---
	rankTask := tasks.NewCitationRankCacheTask(citationRepo, citationRankRepo, logger)
	watchdogTask := tasks.NewReviewWatchdogTask(reviewRepo, &cfg.ReviewConfig, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 10. 设置 Gin 路由器 ---
	ginRouter := router.SetupRouter(logger, &cfg, paperController, reviewController, commentController, adminReviewController)
	logger.Info("Gin 路由器已设置")

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second) // 30 秒关停超时
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	if consumerCancel != nil {
		logger.Info("正在发送停止信号给 Kafka 消费者...")
		consumerCancel() // 通知所有使用 consumerCtx 的 goroutine 退出
	}
	logger.Info("等待 Kafka 消费者停止...")
	consumerWg.Wait()

	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭某个 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止。")

	// c. 关闭 Kafka 生产者
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者时出错", zap.Error(err))
		}
	}

	// d. 停止定时任务调度器 (等待任务结束)
	logger.Info("正在停止定时任务...")
	rankStopCtx := rankTask.Stop()
	watchdogStopCtx := watchdogTask.Stop()

	// 使用 select 和定时器来等待任务结束，避免无限阻塞
	tasksStopped := 0
	for tasksStopped < 2 {
		select {
		case <-ctxDone(rankStopCtx):
			logger.Info("引用排行榜缓存任务已停止")
			rankStopCtx = nil // 防止重复 select 到
			tasksStopped++
		case <-ctxDone(watchdogStopCtx):
			logger.Info("评审看门狗任务已停止")
			watchdogStopCtx = nil // 防止重复 select 到
			tasksStopped++
		case <-shutdownCtx.Done(): // 检查总的关停超时
			logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
			tasksStopped = 2 // 超时则强制退出等待
		}
		if rankStopCtx == nil && watchdogStopCtx == nil {
			break // 都完成了
		} else if (rankStopCtx == nil) != (watchdogStopCtx == nil) {
			// 一个完成一个没完成，短暂 sleep 等待另一个或超时
			time.Sleep(100 * time.Millisecond)
		}
	}
	logger.Info("所有定时任务已停止")

	// e. (其他清理，例如关闭 TracerProvider - 已通过 defer 处理)

	logger.Info("服务已成功关闭")
}

// ctxDone 返回 context 的完成通道；context 为 nil 时返回 nil 通道 (select 中永久阻塞)。
func ctxDone(ctx context.Context) <-chan struct{} {
	if ctx == nil {
		return nil
	}
	return ctx.Done()
}
