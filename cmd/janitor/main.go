package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/jose-valero/signals-janitor/internal/app"
)

var sweeper = app.NewLazySweeper(app.FromEnv("janitor"))

// handler corre desde la regla de EventBridge (rate(20 minutes)).
// Devolver error marca la invocación como fallida; el próximo tick reintenta,
// incluida la conexión a la DB si no se pudo armar antes.
func handler(ctx context.Context, event events.CloudWatchEvent) (string, error) {
	log.Printf("[janitor] triggered by event id=%s source=%s", event.ID, event.Source)

	res, err := sweeper.Run(ctx)
	if err != nil {
		log.Printf("[janitor] %v", err)
		return "", err
	}
	return fmt.Sprintf("ok deleted=%d", res.Deleted), nil
}

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	lambda.Start(handler)
}
