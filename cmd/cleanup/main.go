package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/jose-valero/signals-janitor/internal/adapters/httpsweep"
	"github.com/jose-valero/signals-janitor/internal/app"
)

// El pool se arma en la primera invocación y se reusa mientras el container
// siga caliente; si falla se reintenta en la siguiente.
var handler = httpsweep.NewHandler(app.NewLazySweeper(app.FromEnv("cleanup")))

func handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return handler.Lambda(ctx, req)
}

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	lambda.Start(handle)
}
