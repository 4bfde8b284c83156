package main

import (
	"flag"
	"log"
	"strings"

	"budget/api"
	"budget/config"
	"budget/database"
	"budget/router"
	"budget/service"
	"budget/storage"
)

// @title 个人预算系统 API
// @version 1.0
// @description 个人预算管理系统 API，支持周期性收支条目的自动入账与邮件提醒
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("个人预算系统 v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 组装周期处理器：依赖统一在此注入，不使用模块级单例
	files := storage.NewLocalFileAdapter(cfg.Upload.Dir)
	store := database.NewItemStore(database.GetDB(), files)
	notifier := service.NewEmailNotifier(&cfg.Email)
	processor := service.NewRecurringProcessor(store, notifier)

	// 内置调度器（可选，与外部 cron 触发二选一）
	if cfg.Cron.Enabled {
		scheduler, err := service.NewScheduler(cfg.Cron, processor)
		if err != nil {
			log.Fatalf("调度器初始化失败: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// 设置路由
	r := router.SetupRouter(cfg, api.NewRecurringHandler(processor))

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  💰 个人预算系统已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
