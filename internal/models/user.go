package models

import (
	"time"

	"gorm.io/datatypes"
)

// 洞察分析结果的反范式缓存，每次 run-analysis 整体覆盖
type AIInsights struct {
	TopPerformingTags    datatypes.JSONSlice[string] `json:"topPerformingTags"`
	ImprovementAreaTags  datatypes.JSONSlice[string] `json:"improvementAreaTags"`
	PeakProductivityTime string                      `json:"peakProductivityTime"`
	HabitAnalysis        string                      `json:"habitAnalysis"`
}

// DefaultInsights 注册时的占位内容
func DefaultInsights() AIInsights {
	return AIInsights{
		TopPerformingTags:    datatypes.NewJSONSlice([]string{}),
		ImprovementAreaTags:  datatypes.NewJSONSlice([]string{}),
		PeakProductivityTime: "Not enough data",
		HabitAnalysis:        "Keep tracking your sessions to get personalized insights!",
	}
}

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:64"`
	FullName     string     `json:"fullname" gorm:"size:128"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:128"`
	PasswordHash string     `json:"-"`
	RefreshToken string     `json:"-"`
	AIInsights   AIInsights `json:"aiInsights" gorm:"embedded;embeddedPrefix:insight_"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
