package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/civic-stack/grievance-portal/src/portal/config"
	"github.com/civic-stack/grievance-portal/src/portal/data"
	"github.com/civic-stack/grievance-portal/src/portal/media"
	"github.com/civic-stack/grievance-portal/src/portal/notify"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
	"github.com/civic-stack/grievance-portal/src/portal/types"
	"github.com/civic-stack/grievance-portal/src/portal/webserver"
)

var allModels = []interface{}{
	&types.User{}, &types.Complaint{},
	&types.ComplaintMessage{}, &types.Escalation{},
}

func migrate(db *gorm.DB) {
	err := db.AutoMigrate(allModels...)

	if err == nil {
		return
	}

	log.Printf("auto-migrate failed (%v), dropping and recreating schema", err)
	_ = db.Migrator().DropTable(
		"escalations", "complaint_messages", "complaints", "users",
	)
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate after drop: %v", err)
	}
}

// seedAdmin ensures an administrative identity exists so the portal is
// operable on first boot.
func seedAdmin(db *gorm.DB, email, name string) {
	if email == "" {
		return
	}
	var admin types.User
	err := db.Where("email = ?", email).
		Attrs(types.User{Name: name, Role: types.RoleAdmin}).
		FirstOrCreate(&admin).Error
	if err != nil {
		log.Printf("ERROR: seed admin %s: %v", email, err)
		return
	}
	if admin.Role != types.RoleAdmin {
		_ = db.Model(&admin).Update("role", types.RoleAdmin).Error
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)
	seedAdmin(db, cfg.AdminEmail, cfg.AdminName)

	rdb := data.MustRedis(cfg.RedisURL)

	store := storage.NewService(db)
	notifier := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	var mediaStore media.Store
	if cfg.S3Bucket != "" {
		s3Store, err := media.NewS3Store(context.Background(), media.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			log.Printf("ERROR: media store disabled: %v", err)
		} else {
			mediaStore = s3Store
		}
	}

	router := webserver.New(cfg, store, rdb, notifier, mediaStore)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Grievance portal listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
}
