package entity

// InjuryClassification は負傷区分。ストレージ上は文字列で持つ
type InjuryClassification string

const (
	InjuryNone                InjuryClassification = ""
	InjuryFirstAid            InjuryClassification = "first_aid"
	InjuryMedicalTreatment    InjuryClassification = "medical_treatment"
	InjuryRestrictedWork      InjuryClassification = "restricted_work"
	InjuryLostTime            InjuryClassification = "lost_time"
	InjuryLostWorkday         InjuryClassification = "lost_workday"
	InjuryPermanentDisability InjuryClassification = "permanent_disability"
	InjuryFatality            InjuryClassification = "fatality"
)

// SeverityReason は最低重大度が発火した根拠
type SeverityReason string

const (
	ReasonNone              SeverityReason = ""
	ReasonFatalInjury       SeverityReason = "fatal_or_permanent_injury"
	ReasonLostTimeInjury    SeverityReason = "lost_time_injury"
	ReasonEmergencyResponse SeverityReason = "emergency_response"
)

// 緊急系のイベントタイプ。該当するとレベル4の下限が掛かる
var emergencyEventTypes = map[string]bool{
	"emergency":        true,
	"emergency_crisis": true,
	"crisis":           true,
}

// MinimumSeverity はイベント属性から義務的な最低重大度を算出する。
// 優先順位は 死亡・後遺障害 > 休業災害 > 緊急対応。未知の区分は
// トリガーなしとして扱う(将来の区分追加でワークフローを止めないため)
func MinimumSeverity(injury InjuryClassification, erpActivated bool, eventType string) (SeverityLevel, SeverityReason) {
	switch injury {
	case InjuryFatality, InjuryPermanentDisability:
		return SeverityCatastrophic, ReasonFatalInjury
	case InjuryLostTime, InjuryLostWorkday:
		return SeverityMajor, ReasonLostTimeInjury
	}
	if erpActivated || emergencyEventTypes[eventType] {
		return SeverityMajor, ReasonEmergencyResponse
	}
	return SeverityNegligible, ReasonNone
}

// IsBelowMinimum は選択済み重大度が下限未満かを判定する。
// 未選択(0)は下限未満とは見なさない
func IsBelowMinimum(selected, minimum SeverityLevel) bool {
	if selected <= 0 {
		return false
	}
	return selected < minimum
}
