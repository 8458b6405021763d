package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/rdf-utils/rdf-utils/content"
	"github.com/rdf-utils/rdf-utils/internal/config"
	"github.com/rdf-utils/rdf-utils/internal/logging"
	"github.com/rdf-utils/rdf-utils/internal/proxy"
	"github.com/rdf-utils/rdf-utils/internal/server"
	"github.com/rdf-utils/rdf-utils/internal/server/routes"
	"github.com/rdf-utils/rdf-utils/internal/version"
	"github.com/rdf-utils/rdf-utils/resolver"
)

const defaultConfigFile = "config.toml"

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	fetchURL    string
	readFile    string
	serve       bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	// 读取模式把正文写到 stdout，日志改走 stderr，避免混入输出。
	console := stdOut
	if opts.fetchURL != "" || opts.readFile != "" {
		console = stdErr
	}
	logger, err := logging.InitLogger(cfg.Global, logging.Options{Console: console})
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["sources"] = config.SourceNames(cfg.Sources)
		fields["cache_root"] = cfg.Global.CacheRoot
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动遵循“配置 → 安装解析器 → 读取/服务”顺序，
	// 保证 CLI 读取与 Fiber 服务共享同一个进程级解析器。
	if _, err := resolver.Install(cfg.InstallOptions(logger)); err != nil {
		fmt.Fprintf(stdErr, "安装解析器失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["sources"] = len(cfg.Mappings())
	fields["cache_root"] = cfg.Global.CacheRoot
	fields["download"] = cfg.Global.Download
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if opts.fetchURL != "" {
		return runFetch(opts.fetchURL, cfg, logger)
	}
	if opts.readFile != "" {
		return runReadFile(opts.readFile, logger)
	}
	if !opts.serve {
		return 0
	}

	if err := startHTTPServer(cfg, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// runFetch 经由已安装的解析器读取 URL 并输出文本。
func runFetch(rawURL string, cfg *config.Config, logger *logrus.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	text, err := content.ReadURLAndCache(ctx, rawURL, cfg.FetchTimeout())
	if err != nil {
		fields := logging.FetchFields(rawURL, "", "", false)
		fields["action"] = "fetch"
		logger.WithFields(fields).WithError(err).Error("读取失败")
		fmt.Fprintf(stdErr, "读取 %s 失败: %v\n", rawURL, err)
		return 1
	}

	fmt.Fprint(stdOut, text)
	return 0
}

// runReadFile 经由进程级文件缓存读取本地文件并输出文本。
func runReadFile(path string, logger *logrus.Logger) int {
	text, err := content.ReadFileAndCache(path)
	if err != nil {
		fields := logging.BaseFields("read_file", "")
		fields["path"] = path
		logger.WithFields(fields).WithError(err).Error("读取失败")
		fmt.Fprintf(stdErr, "读取 %s 失败: %v\n", path, err)
		return 1
	}

	fmt.Fprint(stdOut, text)
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("rdf-utils", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
		fetchURL   string
		readFile   string
		serve      bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 RDF_UTILS_CONFIG 覆盖；均不存在时使用内置默认值）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")
	fs.StringVar(&fetchURL, "fetch", "", "经由缓存解析器读取 URL 并输出到 stdout")
	fs.StringVar(&readFile, "read-file", "", "经由文件内容缓存读取本地文件并输出到 stdout")
	fs.BoolVar(&serve, "serve", false, "启动镜像服务（未指定 --fetch/--read-file 时的默认行为）")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	modes := 0
	for _, set := range []bool{fetchURL != "", readFile != "", serve} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return cliOptions{}, errors.New("--fetch、--read-file 与 --serve 只能选择一个")
	}

	path := os.Getenv("RDF_UTILS_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
		fetchURL:    fetchURL,
		readFile:    readFile,
		serve:       serve || (fetchURL == "" && readFile == ""),
	}, nil
}

func startHTTPServer(cfg *config.Config, logger *logrus.Logger) error {
	registry, err := server.NewSourceRegistry(cfg)
	if err != nil {
		return fmt.Errorf("构建 Source 注册表失败: %w", err)
	}

	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Registry:   registry,
		Proxy:      proxy.NewHandler(resolver.Default, logger, cfg.FetchTimeout()),
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterSourceRoutes(app, registry)
	server.RegisterFallback(app)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
