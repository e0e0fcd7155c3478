package service

import "strings"

// 以下映射表在进程启动时构建，之后只读，不需要加锁

// backgroundSkillTable 学习背景 -> 技能水平
var backgroundSkillTable = map[string]float64{
	"never":        0.0,
	"dabbled":      0.25,
	"beginner":     0.4,
	"intermediate": 0.65,
	"advanced":     0.9,
}

// industryTags 行业 -> 标签
var industryTags = map[string][]string{
	"tech":       {"programming", "software", "web", "cloud"},
	"finance":    {"finance", "data", "analytics", "fintech"},
	"healthcare": {"healthcare", "data", "biology"},
	"education":  {"education", "teaching", "content"},
	"gaming":     {"games", "graphics", "programming"},
	"design":     {"design", "ui", "ux", "frontend"},
	"marketing":  {"marketing", "analytics", "content", "seo"},
	"data":       {"data", "analytics", "machine_learning", "statistics"},
	"security":   {"security", "networking", "systems"},
	"ecommerce":  {"web", "ecommerce", "marketing", "backend"},
}

// subjectTags 学科兴趣 -> 标签
var subjectTags = map[string][]string{
	"programming": {"programming", "software"},
	"math":        {"math", "statistics", "algorithms"},
	"design":      {"design", "ui", "ux"},
	"science":     {"data", "research", "biology"},
	"business":    {"business", "marketing", "finance"},
	"writing":     {"content", "communication"},
	"art":         {"design", "graphics", "creative"},
	"hardware":    {"systems", "embedded", "networking"},
}

// dreamProjectTags 梦想项目 -> 标签
var dreamProjectTags = map[string][]string{
	"mobile_app":     {"mobile", "programming", "ui"},
	"website":        {"web", "frontend", "design"},
	"game":           {"games", "graphics", "programming"},
	"ai_model":       {"machine_learning", "data", "statistics"},
	"online_store":   {"ecommerce", "web", "marketing"},
	"data_dashboard": {"data", "analytics", "frontend"},
	"automation":     {"scripting", "programming", "systems"},
	"startup":        {"business", "product", "web"},
}

// motivationOutcomeWeights 学习动机 -> 路径产出 -> 权重
var motivationOutcomeWeights = map[string]map[string]float64{
	"career_change":  {"job_ready": 1.0, "portfolio": 0.7, "certification": 0.5},
	"promotion":      {"certification": 1.0, "leadership": 0.6, "job_ready": 0.4},
	"side_project":   {"portfolio": 1.0, "build_product": 0.8},
	"curiosity":      {"fundamentals": 1.0, "build_product": 0.3},
	"freelance":      {"portfolio": 0.9, "build_product": 0.8, "job_ready": 0.4},
	"start_business": {"build_product": 1.0, "leadership": 0.5},
}

// personalityIndustryAffinity 性格类型 × 行业 亲和度
var personalityIndustryAffinity = map[string]map[string]float64{
	"analytical": {
		"tech": 0.8, "finance": 0.9, "healthcare": 0.6, "education": 0.4, "gaming": 0.5,
		"design": 0.3, "marketing": 0.4, "data": 1.0, "security": 0.9, "ecommerce": 0.5,
	},
	"creative": {
		"tech": 0.6, "finance": 0.2, "healthcare": 0.3, "education": 0.6, "gaming": 0.9,
		"design": 1.0, "marketing": 0.8, "data": 0.4, "security": 0.3, "ecommerce": 0.6,
	},
	"social": {
		"tech": 0.4, "finance": 0.5, "healthcare": 0.8, "education": 1.0, "gaming": 0.5,
		"design": 0.6, "marketing": 0.9, "data": 0.3, "security": 0.3, "ecommerce": 0.7,
	},
	"practical": {
		"tech": 0.9, "finance": 0.6, "healthcare": 0.6, "education": 0.5, "gaming": 0.6,
		"design": 0.5, "marketing": 0.5, "data": 0.7, "security": 0.8, "ecommerce": 0.8,
	},
}

type horizon struct {
	Hours float64
	Days  int
}

// timeHorizonTable 时间规划 -> (可投入总小时, 天数)
var timeHorizonTable = map[string]horizon{
	"1_month":  {Hours: 40, Days: 30},
	"3_months": {Hours: 120, Days: 90},
	"6_months": {Hours: 240, Days: 180},
	"1_year":   {Hours: 480, Days: 365},
	"flexible": {Hours: 600, Days: 540},
}

// dailyRoutineMinutes 每日作息 -> 每日可学习分钟数
var dailyRoutineMinutes = map[string]int{
	"minimal":   15,
	"short":     30,
	"regular":   60,
	"intensive": 120,
}

// mathComfortTable 数学适应度 -> [0,1]
var mathComfortTable = map[string]float64{
	"avoid":       0.1,
	"basic":       0.4,
	"comfortable": 0.7,
	"love":        0.95,
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BackgroundSkill 未知的背景视为零基础
func BackgroundSkill(level string) float64 {
	return backgroundSkillTable[normalizeKey(level)]
}

// RoutineMinutes 未知作息返回 0
func RoutineMinutes(routine string) int {
	return dailyRoutineMinutes[normalizeKey(routine)]
}

func mathComfortValue(comfort string) (float64, bool) {
	v, ok := mathComfortTable[normalizeKey(comfort)]
	return v, ok
}

// AvailableHours 时间规划给出的小时数，作息已知时取两者中较小的一个；未知返回 0
func AvailableHours(timeHorizon, dailyRoutine string) float64 {
	h, ok := timeHorizonTable[normalizeKey(timeHorizon)]
	if !ok {
		return 0
	}
	available := h.Hours
	if minutes := RoutineMinutes(dailyRoutine); minutes > 0 {
		routineHours := float64(minutes*h.Days) / 60
		if routineHours < available {
			available = routineHours
		}
	}
	return available
}

// expandTags 将输入项按映射表展开为标签集合，includeKeys 时输入本身也作为标签
func expandTags(items []string, table map[string][]string, includeKeys bool) map[string]bool {
	set := make(map[string]bool)
	for _, item := range items {
		key := normalizeKey(item)
		if key == "" {
			continue
		}
		if includeKeys {
			set[key] = true
		}
		for _, tag := range table[key] {
			set[tag] = true
		}
	}
	return set
}
