package usecase

import "stock_predictor/internal/feature/prediction/domain/entity"

// ToTrainingFrame は株価系列を予測エンジン用の2列形式（ds, y）に変換します。
// 日付は ds、調整後終値は y になります。リサンプリングや欠損補完は行いません。
func ToTrainingFrame(series entity.PriceSeries) entity.TrainingFrame {
	frame := make(entity.TrainingFrame, len(series))
	for i, bar := range series {
		frame[i] = entity.TrainingPoint{DS: bar.Date, Y: bar.AdjClose}
	}
	return frame
}
