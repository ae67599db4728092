// Package config provides configuration parsing for vtree projects.
//
// The configuration is stored in vtree.json, vtree.yaml or vtree.yml at the
// project root. This package handles loading, saving, and validating
// configuration, and turns it into runtime options.
//
// # Configuration File Structure
//
//	{
//	  "name": "resume",
//	  "engine": {
//	    "syncComponentUpdates": true,
//	    "maxExpansionDepth": 256,
//	    "pool": {"maxPerKey": 64},
//	    "scheduler": "microtask",
//	    "timerDelay": "1ms"
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "vtree"},
//	  "tracing": {"enabled": false},
//	  "render": {"pretty": true, "indent": "  "},
//	  "resume": {"data": "resume.json", "locale": "en"},
//	  "preview": {"addr": "localhost:3000"},
//	  "publish": {
//	    "output": "dist/index.html",
//	    "s3": {"bucket": "my-site", "key": "index.html", "region": "us-east-1"}
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
//	opts, err := cfg.EngineOptions(nil)
//	rt := reconcile.New(append(opts, reconcile.WithLogger(cfg.Logger(os.Stderr)))...)
package config
