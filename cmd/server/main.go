package main

import (
	_ "github.com/eleven-am/jump-backend/docs"
	"github.com/eleven-am/jump-backend/internal/bootstrap"
)

// @title Jump Backend API
// @version 1.0.0
// @description Flight-time vertical jump analysis: video upload, frame selection, kinematics and PDF report

// @BasePath /api/v1

func main() {
	bootstrap.Run()
}
