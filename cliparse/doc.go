/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (via godotenv) as a
development convenience; real environment variables and flags win over it.

# Config Fields

  - Port: server listen port (default: 3319)
  - DatabaseURL: database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AIPersonaID: user id the AI persona votes under (default: sage)
  - AIPersonaName: persona display name (default: Sage)
  - NotifyQueueSize: notification dispatcher buffer (default: 256)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-ai-id         AI persona user id
	-ai-name       AI persona display name
	-notify-queue  Notification queue size

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	AI_PERSONA_ID     → -ai-id
	AI_PERSONA_NAME   → -ai-name
	NOTIFY_QUEUE_SIZE → -notify-queue

CLI flags take precedence over environment variables.
*/
package cliparse
