package main

import (
	"flag"

	"phipay/config"
	"phipay/internal"
	"phipay/services"
)

func main() {

	logger := internal.NewLogger("internal", false, nil)

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}

	var mongo services.Database
	if conf.Mongo.Enabled {
		mongo, err = internal.NewMongoClient(conf)
		if err != nil {
			logger.Error("mongo client", err)
			return
		}
		logger.Info("mongo client initialized")
	}

	attempts := internal.NewRedisAttempts(conf)

	gateway := internal.NewPayPhi(conf)
	gateway.SetLogger(internal.NewLogger("gateway", conf.IsDebug, mongo))

	checkout := internal.NewCheckout(conf)
	checkout.SetGateway(gateway)
	checkout.SetAttempts(attempts)
	checkout.SetDatabase(mongo)
	checkout.SetLogger(internal.NewLogger("checkout", conf.IsDebug, mongo))

	server := internal.NewServer(conf)
	server.SetCheckoutService(checkout)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, mongo))

	err = server.Start()
	if err != nil {
		logger.Error("server start", err)
		return
	}

}
