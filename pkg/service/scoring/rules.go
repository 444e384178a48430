package scoring

import (
	"github.com/enishi-chat/enishi/pkg/domain/model/config"
)

// DefaultRules returns the built-in curated category table. It can be
// replaced wholesale with a TOML file via the --rules flag.
func DefaultRules() *config.RuleTable {
	return config.NewRuleTable(map[string][]string{
		"游戏":   {"英雄联盟", "原神", "csgo", "瓦罗兰特", "王者荣耀", "fps", "moba", "game", "黑神话", "steam"},
		"英雄联盟": {"游戏", "lol", "moba", "撸啊撸", "大乱斗"},
		"原神":   {"游戏", "二次元", "米哈游", "开放世界"},
		"编程":   {"写代码", "程序员", "前端", "后端", "js", "java", "node", "python"},
		"聊天":   {"交友", "摸鱼", "随便", "唠嗑"},
	})
}
