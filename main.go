package main

import "neofitness/internal/app"

// @title           NeoFitness Auth API
// @version         1.0
// @description     Account registration, login, email verification and password reset.
// @BasePath        /
func main() {
	app.Run()
}
