package main

import (
	"flag"
	_ "net/http/pprof"

	"github.com/questforge/cubevault/api/router"
	"github.com/questforge/cubevault/app"
	"github.com/questforge/cubevault/config"
	"github.com/questforge/cubevault/service/svc"
)

const defaultConfigPath = "./config/config.toml"

func main() {
	conf := flag.String("conf", defaultConfigPath, "conf file path")
	flag.Parse()
	c, err := config.UnmarshalConfig(*conf)
	if err != nil {
		panic(err)
	}

	if c.Domain.ChainID == 0 || c.Domain.Name == "" {
		panic("invalid domain config")
	}

	serverCtx, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	r := router.NewRouter(serverCtx)

	platform, err := app.NewPlatform(c, r, serverCtx)
	if err != nil {
		panic(err)
	}
	platform.Start()
}
