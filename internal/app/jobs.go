package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	// Warm the motivation quote cache each morning so the first dashboard
	// hit does not pay the generation latency.
	_, err := a.sched.AddFunc("10 0 6 * * *", func() {
		if a.aiSvc == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := a.aiSvc.DailyMotivation(ctx); err != nil {
			zap.S().Errorf("daily motivation refresh failed: %v", err)
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Old motivation quotes have no readers after their day passes.
	_, err = a.sched.AddFunc("@weekly", func() {
		cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
		a.gormDB.Where("day < ?", cutoff).Delete(domain.MotivationQuote{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}
