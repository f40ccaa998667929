package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 1. 定义与数据库表对应的结构体
type PluginSetting struct {
	ID    int64
	Key   string
	Value string
}

func main() {
	fmt.Println(">>> 开始执行全链路测试...")

	// ------------------------------------------------
	// 2. 连接数据库
	// ------------------------------------------------
	dsn := "host=localhost user=petshop password=petshop dbname=petshop_redirect port=5432 sslmode=disable"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 数据库连接失败: %v", err)
	}
	fmt.Println("✅ 数据库连接成功！")

	// ------------------------------------------------
	// 3. 从数据库读取目录 API 配置
	// ------------------------------------------------
	apiURL := "https://big-games.shop/wp-json/wc-products/v1/list"
	var setting PluginSetting
	if err := db.Table("plugin_settings").Where("key = ?", "pr_api_url").First(&setting).Error; err == nil && setting.Value != "" {
		apiURL = setting.Value
	}
	fmt.Printf("✅ 读取配置成功: [API URL: %s]\n", apiURL)

	// ------------------------------------------------
	// 4. 发起目录 API 请求
	// ------------------------------------------------
	client := resty.New()

	// 设置超时和重试，防止网络波动
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(3)

	fmt.Println(">>> 正在向目录 API 发起请求...")
	resp, err := client.R().Get(apiURL)

	// ------------------------------------------------
	// 5. 结果验证
	// ------------------------------------------------
	if err != nil {
		log.Fatalf("❌ 请求失败 (可能是网络不通): %v", err)
	}

	if resp.StatusCode() != 200 {
		fmt.Printf("⚠️ 连接通了，但远端拒绝了请求 (状态码 %d)\n", resp.StatusCode())
		fmt.Printf("错误信息: %s\n", resp.String())
		return
	}

	var categories []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &categories); err != nil {
		fmt.Println("⚠️ 远端返回的不是 JSON 数组，目录会被当成空树")
		return
	}

	fmt.Println("🎉🎉🎉 测试成功！全链路已打通！")
	fmt.Printf("目录共 %d 个顶层分类\n", len(categories))
}
