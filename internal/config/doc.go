// Package config provides configuration parsing for toastd.
//
// The configuration is stored in toast.json. Every field can be overridden
// from the environment (a .env file is honoured) using TOASTD_* variables.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3100,
//	    "metrics": true,
//	    "shutdownTimeout": "10s"
//	  },
//	  "queue": {
//	    "maxVisible": 5,
//	    "position": "top-right",
//	    "defaultDuration": "5s",
//	    "tickInterval": "100ms"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := toast.New(cfg.ManagerOptions()...)
package config
