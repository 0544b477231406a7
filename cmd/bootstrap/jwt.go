package bootstrap

import (
	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTVerifier,
	),
)

func NewJWTVerifier(cfg config.Config) *jwt.Verifier {
	return jwt.NewVerifier(cfg.JWT.Secret)
}
