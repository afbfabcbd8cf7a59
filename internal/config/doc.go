// Package config loads the shell's settings.
//
// Settings live in a YAML file keyed by environment name, so one file carries
// the development, test and production variants side by side:
//
//	development:
//	  host: localhost
//	  port: 3000
//	  api:
//	    host: localhost
//	    port: 3030
//	  app:
//	    title: isoshell
//	  static:
//	    dir: static
//	  assets:
//	    manifest: webpack-assets.json
//	  ssr:
//	    loadTimeout: 10s
//	production:
//	  port: 8080
//	  ...
//
// The environment selects the section and carries the process-wide flags:
//
//	ISOSHELL_ENV           section name (default "development")
//	ISOSHELL_SETTINGS      settings file path (default "settings.yaml")
//	ISOSHELL_DEVELOPMENT   development mode; defaults to ISOSHELL_ENV == "development"
//	ISOSHELL_DISABLE_SSR   serve client-hydration-only documents
//	ISOSHELL_ADDR          listen address override
//
// Configuration is read once at startup and passed explicitly to the
// components that need it; nothing in the request path reads the environment.
package config
