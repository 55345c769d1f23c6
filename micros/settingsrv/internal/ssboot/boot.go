package ssboot

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lesismal/arpc"
	"github.com/sweemingdow/sdconv/external/econfig"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst"
	"github.com/sweemingdow/sdconv/external/erpc/rpcuser"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/config/sscfg"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/invalctrl"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/nsqnotify"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/settmgr"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hhttp"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hmq/attchange"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hmq/identchange"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hmq/mebchange"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hmq/profchange"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hmq/settreload"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hmq/wlchange"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hrpc"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/attachrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/convsrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/mutualrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/partrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/routers"
	"github.com/sweemingdow/sdconv/pkg/async"
	"github.com/sweemingdow/sdconv/pkg/cnsq"
	"github.com/sweemingdow/sdconv/pkg/credis"
	"github.com/sweemingdow/sdconv/pkg/csql"
	"github.com/sweemingdow/sdconv/pkg/graceful"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
	"github.com/sweemingdow/sdconv/pkg/wrapper"
	"golang.org/x/text/language"
)

const stopTimeout = 15 * time.Second

type lifecycleItem struct {
	tag string
	g   graceful.Gracefully
}

// Run 组装settingsrv并常驻, 收到SIGINT/SIGTERM后按注册的逆序优雅退出
func Run() error {
	cfg, err := sscfg.LoadStaticConfig()
	if err != nil {
		return err
	}

	mylog.Init(cfg.App.Name, cfg.LogCfg)
	lg := mylog.AppLogger()

	var lifecycles []lifecycleItem
	collect := func(tag string, g graceful.Gracefully) {
		lifecycles = append(lifecycles, lifecycleItem{tag: tag, g: g})
	}

	sc, err := csql.NewSqlClient(econfig.SqlConfigConvert(cfg.SqlCfg))
	if err != nil {
		return err
	}
	collect(csql.SqlLifetimeTag, sc)

	rc := credis.NewRedisClient(econfig.RedisConfigConvert(cfg.RedisCfg))
	if err = rc.Ping(context.Background(), cfg.RedisCfg.PingTimeout); err != nil {
		return err
	}
	collect(credis.RedisLifetimeTag, rc)

	pdCfg, csCfg := econfig.NsqCfgConvert(cfg.NsqCfg)

	nsqPd, err := cnsq.NewNsqProducer(pdCfg)
	if err != nil {
		return err
	}
	collect(cnsq.ProducerLifetimeTag, nsqPd)

	notifier := nsqnotify.NewNsqSettNotifier(nsqPd)
	collect(nsqnotify.NotifierLifetimeTag, notifier)

	repos := invalctrl.Repos{
		Convs:   convsrepo.NewConvSettRepository(sc, rc),
		Parts:   partrepo.NewParticipantRepository(),
		Attachs: attachrepo.NewAttachRepository(),
		Mutuals: mutualrepo.NewMutualGroupRepository(),
	}

	ah := async.NewCallerRunHandler(async.CallerRunOptions{
		CoreWorkers:      cfg.SettCfg.AsyncCoreWorkers,
		MaxWorkers:       cfg.SettCfg.AsyncMaxWorkers,
		MaxWaitQueueSize: cfg.SettCfg.AsyncMaxWaitQueue,
	})

	locale, err := language.Parse(cfg.SettCfg.Locale)
	if err != nil {
		lg.Warn().Str("locale", cfg.SettCfg.Locale).Msg("unparsable locale, fallback to en")
		locale = language.English
	}

	sm := settmgr.NewSettManager(
		cfg.SettCfg.SessionsCap,
		cfg.SettCfg.LockStrip,
		locale,
		sc,
		repos,
		notifier,
		ah,
		nsqPd,
	)
	collect(settmgr.ManagerLifetimeTag, sm)

	nsqFactory := cnsq.NewStaticNsqMsgConsumeFactory()
	nsqFactory.Register(nsqconst.AttachChangeTopic, attchange.NewAttachChangeHandler(sm))
	nsqFactory.Register(nsqconst.ConvMemberChangeTopic, mebchange.NewMemberChangeHandler(sm))
	nsqFactory.Register(nsqconst.IdentityChangeTopic, identchange.NewIdentityChangeHandler(sm))
	nsqFactory.Register(nsqconst.ProfileChangeTopic, profchange.NewProfileChangeHandler(sm))
	nsqFactory.Register(nsqconst.ProfileWhitelistChangeTopic, wlchange.NewWhitelistChangeHandler(sm))
	nsqFactory.Register(nsqconst.SettReloadTopic, settreload.NewSettReloadHandler(sm))

	nsqCs, err := cnsq.NewNsqConsumer(csCfg, nsqFactory)
	if err != nil {
		return err
	}
	collect(cnsq.ConsumerLifetimeTag, nsqCs)

	userProvider, err := rpcuser.NewUserInfoRpcProvider(cfg.RpcCliCfg.UserSrvAddr, cfg.RpcCliCfg.CallTimeout)
	if err != nil {
		return err
	}

	settHttpHandler := hhttp.NewSettHttpHandler(sm, userProvider)
	settRpcHandler := hrpc.NewSettRpcHandler(sm)

	fa := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			lg.Error().Stack().Err(err).Str("path", c.Path()).Msg("fiber handle failed")

			contents, fe := json.Fmt(wrapper.GeneralErr(err))
			if fe != nil {
				return c.SendString(err.Error())
			}

			return c.Send(contents)
		},
	})

	rpcSrv := arpc.NewServer()

	binder := routers.NewSettServerRouteBinder(settHttpHandler, settRpcHandler)
	binder.BindFiber(fa)
	binder.BindArpc(rpcSrv)

	ec := make(chan error, 2)

	go func() {
		lg.Info().Str("addr", cfg.App.HttpAddr).Msg("http server listening")
		ec <- fa.Listen(cfg.App.HttpAddr)
	}()

	go func() {
		lg.Info().Str("addr", cfg.App.RpcAddr).Msg("rpc server listening")
		ec <- rpcSrv.Run(cfg.App.RpcAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-ec:
		lg.Error().Stack().Err(err).Msg("server exited unexpectedly")
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("receive stop signal")
		err = nil
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if se := fa.ShutdownWithContext(stopCtx); se != nil {
		lg.Error().Stack().Err(se).Msg("http server shutdown failed")
	}

	if se := rpcSrv.Shutdown(stopCtx); se != nil {
		lg.Error().Stack().Err(se).Msg("rpc server shutdown failed")
	}

	if se := ah.Shutdown(stopCtx); se != nil {
		lg.Error().Stack().Err(se).Msg("async handler shutdown failed")
	}

	// 逆序停: 先停入口(consumer), 最后停存储
	for i := len(lifecycles) - 1; i >= 0; i-- {
		item := lifecycles[i]
		if se := item.g.GracefulStop(stopCtx); se != nil {
			lg.Error().Stack().Err(se).Str("tag", item.tag).Msg("lifecycle stop failed")
		} else {
			lg.Info().Str("tag", item.tag).Msg("lifecycle stopped")
		}
	}

	return err
}
