package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zoeyai/oskemu/internal/logger"
	"github.com/zoeyai/oskemu/pkg/config"
)

var (
	configDir  string
	saveConfig bool

	cfg    *config.EmulatorConfig
	cfgMgr *config.Manager
	appLog *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:     "oskemu",
	Short:   "屏幕键盘测试模拟器",
	Long:    "oskemu 通过辅助功能总线发现屏幕键盘的按键布局,\n并以指针注入的方式按下按键, 自动处理 shift 状态切换。",
	Version: fmt.Sprintf("%s (构建时间: %s, 提交: %s)", Version, BuildTime, GitCommit),

	PersistentPreRunE: setup,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config", "", "配置目录 (默认 ~/.oskemu)")
	flags.BoolVar(&saveConfig, "save", false, "保存当前配置到本地")

	flags.String("bus-address", "", "辅助功能总线地址 (为空自动发现)")
	flags.String("service", "", "键盘服务的总线名称")
	flags.String("keypad", "", "目标键盘区名称 (为空取第一个)")
	flags.String("pointer", "", "指针后端: robotgo 或 uinput")
	flags.String("process-name", "", "键盘服务进程名")
	flags.String("log-level", "", "日志级别: DEBUG/INFO/WARN/ERROR")
	flags.String("log-file", "", "日志文件路径")
	flags.Int("tap-settle-ms", 0, "指针移动后点击前的停顿 (毫秒)")
	flags.Int("shift-ready-timeout-ms", 0, "等待 shift 键就绪的超时 (毫秒)")
	flags.Int("state-wait-timeout-ms", 0, "等待键盘状态切换的超时 (毫秒)")
}

// setup 加载配置并初始化日志; 优先级: 命令行 > 环境变量 > 配置文件 > 默认值
func setup(cmd *cobra.Command, _ []string) error {
	if configDir != "" {
		cfgMgr = config.NewManagerWithDir(configDir)
	} else {
		cfgMgr = config.GetDefaultManager()
	}

	loaded, err := cfgMgr.Load()
	if err != nil {
		fmt.Printf("[WARN] 加载配置失败, 使用默认值: %v\n", err)
	}
	cfg = loaded

	viper.SetConfigFile(cfgMgr.GetConfigFile())
	viper.SetConfigType("json")
	viper.SetEnvPrefix("oskemu")
	viper.AutomaticEnv()

	if cfgMgr.Exists() {
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	if err := bindFlags(cmd); err != nil {
		return err
	}
	applyFlags(cmd)

	if saveConfig {
		if err := cfgMgr.Save(cfg); err != nil {
			return fmt.Errorf("保存配置失败: %w", err)
		}
		fmt.Printf("配置已保存到 %s\n", cfgMgr.GetConfigFile())
	}

	appLog, err = logger.New(logger.Options{
		Level:    logger.ParseLevel(cfg.LogLevel),
		Console:  true,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return err
	}

	return nil
}

// bindFlags 把 viper 中的配置值 (环境变量/配置文件) 落到未显式设置的 flag 上
func bindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("绑定配置 %s 失败: %w", f.Name, err)
			}
		}
	})
	return bindErr
}

// applyFlags 把显式设置的 flag 覆盖到配置上
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("bus-address") {
		cfg.BusAddress, _ = flags.GetString("bus-address")
	}
	if flags.Changed("service") {
		cfg.Service, _ = flags.GetString("service")
	}
	if flags.Changed("keypad") {
		cfg.KeypadName, _ = flags.GetString("keypad")
	}
	if flags.Changed("pointer") {
		cfg.PointerBackend, _ = flags.GetString("pointer")
	}
	if flags.Changed("process-name") {
		cfg.ProcessName, _ = flags.GetString("process-name")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("tap-settle-ms") {
		cfg.TapSettleMs, _ = flags.GetInt("tap-settle-ms")
	}
	if flags.Changed("shift-ready-timeout-ms") {
		cfg.ShiftReadyTimeoutMs, _ = flags.GetInt("shift-ready-timeout-ms")
	}
	if flags.Changed("state-wait-timeout-ms") {
		cfg.StateWaitTimeoutMs, _ = flags.GetInt("state-wait-timeout-ms")
	}
}
