// @title           Hyperlocal Jobs API
// @version         1.0
// @description     API рынка поденной работы: вакансии, отклики, оценки, верификация и чат.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @BasePath        /
// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "hyperlocal_backend/internal/app"

func main() {
	app.Run()
}
