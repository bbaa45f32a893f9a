package videojobs

import "github.com/labstack/echo/v4"

type Handlers interface {
	CreateJob() echo.HandlerFunc
	GetStatus() echo.HandlerFunc
	Download() echo.HandlerFunc
	ListJobs() echo.HandlerFunc
}
