// Issues a bearer token for local testing. Tokens are normally minted by the
// identity service that shares jwt.secret with this API.
//
// Usage: go run ./scripts/issue_token -user u1 -perms GET_PUBLIC_VACANCY,START_TESTING
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/util"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token")
	perms := flag.String("perms", "", "comma separated permissions, \"all\" for every permission")
	state := flag.Int("state", int(model.UserActive), "user state: 1 active, 2 blocked, 3 deleted")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	user := &model.CurrentUser{ID: *userID, State: model.UserState(*state)}
	switch *perms {
	case "":
	case "all":
		user.Permissions = model.AllPermissions
	default:
		for _, p := range strings.Split(*perms, ",") {
			user.Permissions = append(user.Permissions, model.Permission(strings.TrimSpace(p)))
		}
	}

	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
