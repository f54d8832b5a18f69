package integration_test

import "github.com/siteops/dailyup/test/integration/harness"

const twoReports = `[
  {
    "reportDate": "2025.10.18",
    "projectName": "东港盐场改造",
    "reporterName": "李伟",
    "weather": "晴",
    "progressDescription": "因降雨进度滞后两天",
    "workerReports": [
      {"seqNo": "1", "name": "张三", "workerType": "普工", "workContent": "清淤", "workHours": "8"},
      {"seqNo": "2", "name": "李四", "workerType": "电工", "workContent": "布线", "workHours": "8"}
    ]
  },
  {
    "reportDate": "2025.10.19",
    "projectName": "东港盐场改造",
    "reporterName": "李伟",
    "weather": "多云",
    "progressDescription": "项目整体进度正常"
  }
]`

// writeReports stores the two-report fixture in the environment home.
func writeReports(env *harness.TestEnvironment) string {
	return env.WriteFile("reports/week42.json", twoReports)
}
