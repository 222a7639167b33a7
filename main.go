package main

import "github.com/productr/catalog-system/cmd"

// @title           Productr API
// @version         1.0
// @description     Passwordless OTP login and owner-scoped product catalog.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
