// @title           GuardianNet HTTP Service API
// @version         1.0
// @description     A residential community security platform with gate verification, visitor passes and emergency alerts

// @contact.name   API Support
// @contact.email  support@guardiannet.local

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"guardiannet-http-service/internal/app/routes"
	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/internal/infrastructure/database"
	Logger "guardiannet-http-service/pkg/logger"
	"guardiannet-http-service/pkg/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// 未完成注册流程的账户保留时长，超时后由后台清理
const staleRegistrationTTL = 24 * time.Hour

func main() {
	// 设置最大处理器数量，提高并发性能
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 初始化日志配置
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		Logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 创建优化的数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("无法创建数据库连接池: %v", err)
	}
	db := pool.GetDB()

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 启动过期注册清理任务
	startRegistrationJanitor(db, cfg)

	// 初始化路由
	r := routes.SetupRouter(db, cfg)

	// 使用配置中的端口
	port := cfg.ServerPort

	// 打印系统信息
	printSystemInfo(pool)

	// 启动服务器 - 监听所有接口(0.0.0.0)而不是只监听localhost
	Logger.Info("服务器启动在: http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Account{},
		&models.Staff{},
		&models.Vehicle{},
		&models.Visitor{},
		&models.Delivery{},
		&models.MovementLog{},
		&models.EmergencyAlert{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	if _, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")

	tables := []string{
		"accounts", "staffs", "vehicles", "visitors",
		"deliveries", "movement_logs", "emergency_alerts",
	}

	for _, table := range tables {
		log.Printf("删除表: %s", table)
		if _, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			log.Printf("删除表失败: %v", err)
		}
	}

	// 重新创建表
	return autoMigrate(db)
}

// ensureAdminExists 确保系统中有管理员账户
// 管理员不开放注册，只能由系统引导创建
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		hashedPassword, err := utils.HashPassword(cfg.DefaultAdminPassword)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}

		admin := models.Account{
			Name:           "Administrator",
			Email:          cfg.DefaultAdminEmail,
			Password:       hashedPassword,
			Role:           models.RoleAdmin,
			Activated:      true,
			ApprovalStatus: models.ApprovalApproved,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("创建默认管理员失败: %v", err)
		}

		log.Println("已创建默认管理员账户")
	}
}

// startRegistrationJanitor 定时清理超过24小时未完成审批流程的注册账户
func startRegistrationJanitor(db *gorm.DB, cfg *config.Config) {
	accountService := services.NewAccountService(db, cfg,
		services.NewOTPService(services.NewRedisService(cfg), cfg),
		services.NewNotificationService(cfg))

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := accountService.PurgeStaleRegistrations(staleRegistrationTTL); err != nil {
				Logger.Warning("清理过期注册账户失败: %v", err)
			}
		}
	}()
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	// 打印数据库连接池信息
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("数据库连接池状态: %+v", stats)
	}

	// 打印系统资源信息
	log.Printf("系统CPU核心数: %d", runtime.NumCPU())
	log.Printf("当前Go协程数: %d", runtime.NumGoroutine())

	// 打印内存信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
