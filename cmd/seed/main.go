// Seed loads development fixtures: default accounts, the camera registry, and
// a handful of violations. Safe to rerun; existing records are left alone.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	cameramodels "trafficwatch/internal/camera/models"
	camerastore "trafficwatch/internal/camera/store/camera"
	identitymodels "trafficwatch/internal/identity/models"
	userstore "trafficwatch/internal/identity/store/user"
	"trafficwatch/internal/platform/config"
	"trafficwatch/internal/platform/logger"
	"trafficwatch/internal/platform/postgres"
	violationmodels "trafficwatch/internal/violation/models"
	violationstore "trafficwatch/internal/violation/store/violation"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/platform/sentinel"
)

type seedUser struct {
	fullName    string
	role        identitymodels.Role
	citizenNo   string
	badgeNumber string
	department  string
}

type seedCamera struct {
	code       string
	name       string
	location   string
	cameraType string
}

func main() {
	log := logger.New()
	cfg := config.FromEnv()
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := userstore.NewPostgres(db)
	cameras := camerastore.NewPostgresStore(db)
	violations := violationstore.NewPostgres(db)
	now := time.Now()

	for _, su := range []seedUser{
		{fullName: "Quản trị viên hệ thống", role: identitymodels.RoleAuthority},
		{fullName: "Nguyễn Văn An", role: identitymodels.RoleOfficer, badgeNumber: "CS001", department: "Phòng CSGT Quận 1"},
		{fullName: "Trần Thị Bình", role: identitymodels.RoleOfficer, badgeNumber: "CS002", department: "Phòng CSGT Quận 3"},
		{fullName: "Lê Văn Công", role: identitymodels.RoleCitizen, citizenNo: "123456789012"},
	} {
		u, err := identitymodels.NewUser(id.UserID(uuid.New()), su.fullName, su.role, now)
		if err != nil {
			log.Error("build user", "name", su.fullName, "error", err)
			os.Exit(1)
		}
		u.CitizenNo = su.citizenNo
		u.BadgeNumber = su.badgeNumber
		u.Department = su.department
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				log.Info("user exists, skipping", "name", su.fullName)
				continue
			}
			log.Error("seed user", "name", su.fullName, "error", err)
			os.Exit(1)
		}
		log.Info("seeded user", "name", su.fullName, "role", su.role, "id", u.ID)
	}

	var cameraIDs []id.CameraID
	for _, sc := range []seedCamera{
		{code: "CAM001", name: "Camera Nguyễn Huệ - Đồng Khởi", location: "Giao lộ Nguyễn Huệ - Đồng Khởi, Quận 1", cameraType: "speed"},
		{code: "CAM002", name: "Camera Lê Lợi - Pasteur", location: "Giao lộ Lê Lợi - Pasteur, Quận 1", cameraType: "red_light"},
		{code: "CAM003", name: "Camera Trần Hưng Đạo - Nguyễn Thái Học", location: "Giao lộ Trần Hưng Đạo - Nguyễn Thái Học, Quận 1", cameraType: "general"},
	} {
		c, err := cameramodels.NewCamera(id.CameraID(uuid.New()), sc.code, sc.name, sc.location, sc.cameraType, now)
		if err != nil {
			log.Error("build camera", "code", sc.code, "error", err)
			os.Exit(1)
		}
		if err := cameras.CreateIfCodeAvailable(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				log.Info("camera exists, skipping", "code", sc.code)
				if existing, err := cameras.FindByCode(ctx, sc.code); err == nil {
					cameraIDs = append(cameraIDs, existing.ID)
				}
				continue
			}
			log.Error("seed camera", "code", sc.code, "error", err)
			os.Exit(1)
		}
		cameraIDs = append(cameraIDs, c.ID)
		log.Info("seeded camera", "code", sc.code)
	}

	if len(cameraIDs) == 0 {
		log.Error("no cameras available for violation fixtures")
		os.Exit(1)
	}

	plates := []string{"51A-123.45", "59B-678.90", "51G-246.81"}
	types := []string{"speeding", "red_light", "wrong_lane"}
	for i, plate := range plates {
		cameraID := cameraIDs[i%len(cameraIDs)]
		when := now.Add(-time.Duration(i+1) * time.Hour)
		v, err := violationmodels.NewViolation(
			id.ViolationID(uuid.New()), violationmodels.GenerateCode(when),
			plate, types[i], "", "Quận 1, TP.HCM",
			when, 500000, violationmodels.SourceCamera, &cameraID, nil, nil, when,
		)
		if err != nil {
			log.Error("build violation", "plate", plate, "error", err)
			os.Exit(1)
		}
		if err := violations.Create(ctx, v); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				log.Info("violation code taken, skipping", "code", v.Code)
				continue
			}
			log.Error("seed violation", "plate", plate, "error", err)
			os.Exit(1)
		}
		log.Info("seeded violation", "code", v.Code, "plate", plate)
	}

	log.Info("seeding completed")
}
