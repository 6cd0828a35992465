package dataset

// Field names of the lead sheet. All derived computations reference these
// constants so the implicit schema stays auditable in one place.
const (
	FieldCompany     = "企業名"
	FieldBusiness    = "事業内容"
	FieldPlan        = "プラン"
	FieldStage       = "ステージ"
	FieldAssignee    = "担当者"
	FieldProbability = "確度"
	FieldChannel     = "経路"
	FieldApproach    = "アプローチ日"
	FieldMeeting1    = "商談日1"
	FieldMeeting2    = "商談日2"
	FieldMeeting3    = "商談日3"
	FieldMeeting4    = "商談日4"
	FieldMeeting5    = "商談日5"
	FieldQuote       = "見積り・提案"
	FieldContract    = "契約"
)

// MeetingFields lists the milestone date columns in order.
var MeetingFields = [5]string{FieldMeeting1, FieldMeeting2, FieldMeeting3, FieldMeeting4, FieldMeeting5}

// Stage values with dedicated semantics. StageLost is matched exactly;
// StageContract is matched as a substring because stage cells hold composite
// strings in the source sheet.
const (
	StageLost     = "失注"
	StageContract = "契約"
)

// FunnelStages is the fixed ordered stage-label list of the pipeline funnel.
var FunnelStages = []string{"S3", "S4", "S5", "S6", StageContract}

// Default labels substituted for empty cells in grouped views.
const (
	LabelUnset          = "未設定"
	LabelCategoryOther  = "その他"
	LabelChannelUnknown = "不明"
	LabelNotStarted     = "未着手"
)

// DisplayHeaders governs column order in the raw-data view. It is a curated
// subset of the sheet's header list.
var DisplayHeaders = []string{
	FieldCompany, FieldBusiness, FieldPlan, FieldStage, "詳細(自動)", "詳細",
	FieldAssignee, "パーソンランク", FieldProbability, "番号", FieldChannel,
	"経路詳細", "区分", "商談回_数", "決算月", "解決する課題", "提案内容",
	FieldApproach, FieldMeeting1, FieldMeeting2, FieldMeeting3, FieldMeeting4,
	FieldMeeting5, FieldQuote, FieldContract, "HP", "議事録", "資料",
}
